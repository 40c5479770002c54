package user

// FaceMatcher compares a stored face template against a freshly presented
// one and returns a similarity score in [0,1].
//
// The shipped implementation is a stub that accepts everything; genuine
// comparison is an unimplemented capability, kept behind this interface so
// the bypass is explicit and pluggable rather than buried in the login path.
type FaceMatcher interface {
	Match(stored, presented []byte) float64
}

// StubFaceMatcher accepts any presented template.
type StubFaceMatcher struct{}

var _ FaceMatcher = (*StubFaceMatcher)(nil)

func (StubFaceMatcher) Match(stored, presented []byte) float64 { return 1 }
