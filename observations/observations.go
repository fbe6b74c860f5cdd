// Package observations handles the file bookkeeping of reduced survey data
// sets that are split into subfields, such as the CFHTLenS convergence maps.
//
// It knows nothing about the data itself; the inference core receives
// observed features and covariances directly as arrays.
package observations

import (
	"errors"
	"fmt"
	"path/filepath"
)

// Survey locates the reduced observation maps of a survey under a local
// root directory.
type Survey struct {
	root string
}

// NewSurvey creates a Survey rooted at the local copy of the reduced data.
func NewSurvey(root string) (*Survey, error) {
	if root == "" {
		return nil, errors.New("observations: the survey root path is required")
	}

	return &Survey{root: root}, nil
}

// Root returns the survey root directory.
func (s *Survey) Root() string {
	return s.root
}

// MapPath returns the path of the convergence map for one subfield at the
// given smoothing scale (in arcminutes). The naming convention follows the
// reduced CFHTLenS release: KS_obs_subfield<n>_sigma<10*smoothing>.fit.
func (s *Survey) MapPath(subfield int, smoothing float64) string {
	name := fmt.Sprintf("KS_obs_subfield%d_sigma%02d.fit", subfield, int(smoothing*10))

	return filepath.Join(s.root, name)
}
