package interfaces

// DataEncoder transforms event payloads before they are written to the local event store and
// back again when they are read, for instance to encrypt them at rest.
type DataEncoder interface {
	Encode(data string) (string, error)
	Decode(data string) (string, error)
}
