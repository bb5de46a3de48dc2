// Package schema implements the generic construction, validation and
// encoding engine behind every ORSO header record.
//
// Record types declare their fields with `orso` struct tags. The tag for
// each field names its wire key and optionally marks it required, lists
// accepted legacy aliases, enumerates union candidates for fields that
// accept several shapes, and supplies a default:
//
//	Magnitude float64 `orso:"magnitude,required"`
//	Quantity  string  `orso:"physical_quantity,alias=dimension"`
//	Angle     any     `orso:"incident_angle,required,oneof=Value|ValueRange"`
//	Pol       any     `orso:"polarization,oneof=Polarization|ValueVector,default=unpolarized"`
//
// The tags are compiled once per type into an immutable descriptor table
// that a single Build/Encode pair consults for every record. Build turns an
// untyped nested mapping (as decoded by yaml.v3) into a typed instance,
// enforcing required keys, enum membership and union shapes. Encode is its
// inverse and emits only fields that differ from their declared default, so
// the two compose to the identity on any value obtainable via Build.
//
// Keys present in the input that are not declared anywhere land on the
// record's embedded UserData and are re-emitted verbatim by Encode. This
// keeps files written against newer schema revisions readable.
package schema
