package serial

// Port is an open byte stream. Read returns (0, nil) when the read timeout
// elapses without data.
type Port interface {
	Read(p []byte) (int, error)
	Close() error
}

// Opener opens the transport. Each call yields a fresh Port.
type Opener interface {
	Open() (Port, error)
	String() string
}
