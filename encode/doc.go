// Package encode writes snapshot nodes, including patches, as JSON or YAML.
//
// JSON output is indented by default; [EncodeWire] produces the compact form
// used for request bodies. Colors apply to JSON output only.
package encode
