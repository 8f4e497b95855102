package compute

// SerialBackend runs every kernel on the calling goroutine. It is the
// correctness oracle for the parallel backend.
type SerialBackend struct{}

func NewSerial() *SerialBackend {
	return &SerialBackend{}
}

func (s *SerialBackend) Name() string    { return KindSerial }
func (s *SerialBackend) Available() bool { return true }
func (s *SerialBackend) Cleanup()        {}

func (s *SerialBackend) For(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	fn(0, n)
}
