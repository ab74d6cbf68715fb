package gce

import "fmt"

// InvalidParameterError reports a keyword that the selected DTD model does not
// recognize. The message lists the valid keyword sets of all four models, not
// just the selected one, so a user with a typo can see every option at once.
type InvalidParameterError struct {
	Model   Model
	Keyword string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("unknown keyword %q for DTD model %q\n%s", e.Keyword, e.Model, keywordGuide())
}

// NormalizationError reports a degenerate normalization denominator while
// building a rate array (e.g. every point inside the 10 Gyr window is zero).
// It always indicates a configuration problem, never a transient failure.
type NormalizationError struct {
	Model  Model
	Reason string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("cannot normalize %q DTD: %s", e.Model, e.Reason)
}
