package header

import (
	"time"

	"github.com/reflectivity/orsogo/core/schema"
	"github.com/reflectivity/orsogo/domain/model"
	"github.com/reflectivity/orsogo/domain/quantity"
)

// Person identifies someone involved with the measurement or reduction.
type Person struct {
	schema.UserData

	Name        string `orso:"name,required"`
	Affiliation string `orso:"affiliation,required"`
	Contact     string `orso:"contact,alias=email"`
	Comment     string `orso:"comment"`
}

// Probe is the radiation type of the experiment.
type Probe string

const (
	ProbeNeutron Probe = "neutron"
	ProbeXray    Probe = "x-ray"
)

// EnumValues implements schema.Enum.
func (Probe) EnumValues() []string {
	return []string{"neutron", "x-ray"}
}

// Experiment describes the experiment the data originates from.
type Experiment struct {
	schema.UserData

	Title      string    `orso:"title,required"`
	Instrument string    `orso:"instrument,required"`
	StartDate  time.Time `orso:"start_date,required"`
	Probe      Probe     `orso:"probe,required"`
	Facility   string    `orso:"facility"`
	ProposalID string    `orso:"proposal_id,alias=proposalID"`
	DOI        string    `orso:"doi"`
	Comment    string    `orso:"comment"`
}

// Sample describes the measured sample. Model holds the declarative
// layered-structure description resolvable via the model package.
type Sample struct {
	schema.UserData

	Name             string                `orso:"name,required"`
	Category         string                `orso:"category"`
	Composition      string                `orso:"composition"`
	Description      string                `orso:"description"`
	Size             *quantity.ValueVector `orso:"size"`
	Environment      []string              `orso:"environment"`
	SampleParameters map[string]any        `orso:"sample_parameters,oneof=float|Value|ValueRange|ValueVector|ComplexValue"`
	Model            *model.SampleModel    `orso:"model"`
	Comment          string                `orso:"comment"`
}

// DataSource bundles everything describing where the data came from. All
// four members are required.
type DataSource struct {
	schema.UserData

	Owner       Person      `orso:"owner,required"`
	Experiment  Experiment  `orso:"experiment,required"`
	Sample      Sample      `orso:"sample,required"`
	Measurement Measurement `orso:"measurement,required"`
	Comment     string      `orso:"comment"`
}
