package dataencoding

// Plain is a DataEncoder that stores data unchanged.
type Plain struct{}

// Encode returns data unchanged.
func (Plain) Encode(data string) (string, error) { return data, nil }

// Decode returns data unchanged.
func (Plain) Decode(data string) (string, error) { return data, nil }
