package quantity

// Polarization is the closed set of beam polarization channels. The
// one/two-letter values are the neutron channels (incident/detected spin up
// or down), the remaining values the x-ray channels.
type Polarization string

const (
	PolarizationUnpolarized Polarization = "unpolarized"

	// Neutron channels.
	PolarizationPO Polarization = "po"
	PolarizationMO Polarization = "mo"
	PolarizationOP Polarization = "op"
	PolarizationOM Polarization = "om"
	PolarizationMM Polarization = "mm"
	PolarizationMP Polarization = "mp"
	PolarizationPM Polarization = "pm"
	PolarizationPP Polarization = "pp"

	// X-ray channels.
	PolarizationPi         Polarization = "pi"
	PolarizationSigma      Polarization = "sigma"
	PolarizationLeft       Polarization = "left"
	PolarizationRight      Polarization = "right"
	PolarizationPiPi       Polarization = "pi_pi"
	PolarizationSigmaSigma Polarization = "sigma_sigma"
	PolarizationPiSigma    Polarization = "pi_sigma"
	PolarizationSigmaPi    Polarization = "sigma_pi"
)

// EnumValues implements schema.Enum.
func (Polarization) EnumValues() []string {
	return []string{
		"unpolarized",
		"po", "mo", "op", "om", "mm", "mp", "pm", "pp",
		"pi", "sigma", "left", "right",
		"pi_pi", "sigma_sigma", "pi_sigma", "sigma_pi",
	}
}

// ErrorType distinguishes statistical uncertainty from instrumental
// resolution.
type ErrorType string

const (
	ErrorTypeUncertainty ErrorType = "uncertainty"
	ErrorTypeResolution  ErrorType = "resolution"
)

// EnumValues implements schema.Enum.
func (ErrorType) EnumValues() []string {
	return []string{"uncertainty", "resolution"}
}

// ValueIs states how an error magnitude is to be read.
type ValueIs string

const (
	ValueIsSigma ValueIs = "sigma"
	ValueIsFWHM  ValueIs = "FWHM"
)

// EnumValues implements schema.Enum.
func (ValueIs) EnumValues() []string {
	return []string{"sigma", "FWHM"}
}

// Distribution names the assumed error distribution.
type Distribution string

const (
	DistributionGaussian   Distribution = "gaussian"
	DistributionTriangular Distribution = "triangular"
	DistributionUniform    Distribution = "uniform"
	DistributionLorentzian Distribution = "lorentzian"
)

// EnumValues implements schema.Enum.
func (Distribution) EnumValues() []string {
	return []string{"gaussian", "triangular", "uniform", "lorentzian"}
}
