package header

import (
	"time"

	"github.com/reflectivity/orsogo/core/schema"
)

// Software identifies the reduction software.
type Software struct {
	schema.UserData

	Name     string `orso:"name,required"`
	Version  string `orso:"version"`
	Platform string `orso:"platform"`
	Comment  string `orso:"comment"`
}

// Reduction records how the raw data was turned into the dataset.
type Reduction struct {
	schema.UserData

	Software    any        `orso:"software,required,oneof=Software|string"`
	Timestamp   *time.Time `orso:"timestamp"`
	Creator     *Person    `orso:"creator"`
	Corrections []string   `orso:"corrections"`
	Computer    string     `orso:"computer"`
	Call        string     `orso:"call"`
	Script      string     `orso:"script"`
	Binary      string     `orso:"binary"`
	Comment     string     `orso:"comment"`
}
