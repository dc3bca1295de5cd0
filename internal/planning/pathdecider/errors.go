package pathdecider

import "errors"

// ErrPathData is matched by every *PathDataError via errors.Is.
var ErrPathData = errors.New("path data error")

// PathDataError reports candidate path input the pass cannot work with.
// No obstacle is processed when it is returned.
type PathDataError struct {
	Msg string
}

func (e *PathDataError) Error() string {
	return "path data error: " + e.Msg
}

// Is lets errors.Is(err, ErrPathData) match.
func (e *PathDataError) Is(target error) bool {
	return target == ErrPathData
}
