package frenet

import "fmt"

// SLBoundary is an axis-aligned footprint [StartS, EndS] x [StartL, EndL] in
// the Frenet frame.
type SLBoundary struct {
	StartS float64 `json:"start_s"`
	EndS   float64 `json:"end_s"`
	StartL float64 `json:"start_l"`
	EndL   float64 `json:"end_l"`
}

// Width returns the lateral extent EndL - StartL.
func (b SLBoundary) Width() float64 {
	return b.EndL - b.StartL
}

// Length returns the longitudinal extent EndS - StartS.
func (b SLBoundary) Length() float64 {
	return b.EndS - b.StartS
}

// Validate checks that both intervals are ordered.
func (b SLBoundary) Validate() error {
	if b.EndS < b.StartS {
		return fmt.Errorf("sl boundary end_s %.3f before start_s %.3f", b.EndS, b.StartS)
	}
	if b.EndL < b.StartL {
		return fmt.Errorf("sl boundary end_l %.3f before start_l %.3f", b.EndL, b.StartL)
	}
	return nil
}

func (b SLBoundary) String() string {
	return fmt.Sprintf("s[%.2f, %.2f] l[%.2f, %.2f]", b.StartS, b.EndS, b.StartL, b.EndL)
}
