// Package formats decodes on-disk model descriptions into plain records.
//
// Decoders validate structure only; turning records into engine objects is
// left to the engine packages.
package formats
