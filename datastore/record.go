// Package datastore persists one record per trial for later analysis.
package datastore

import (
	"context"
	"fmt"
	"image/color"
	"strconv"
)

// NA marks a field that does not apply to the trial's block type.
const NA = "NA"

// Record is one trial's data. Response fields are strings because they hold
// NA when the block type did not ask for them.
type Record struct {
	SessionID   string
	Participant string
	Practice    bool

	BlockNum  int
	TrialNum  int
	BlockType string

	T1Time int
	T2Time int
	Lag    int

	T1Identity         string
	T2Identity         string
	T1IdentityResponse string
	T1IdentityRT       string
	T2IdentityResponse string
	T2IdentityRT       string

	T1Colour   string
	T2Colour   string
	T1AngErr   string
	T1AngErrRT string
	T2AngErr   string
	T2AngErrRT string

	T1WheelRotation int
	T2WheelRotation int
}

var columns = []string{
	"session_id", "participant", "practicing",
	"block_num", "trial_num", "block_type",
	"t1_time", "t2_time", "lag",
	"t1_identity", "t2_identity",
	"t1_identity_response", "t1_identity_rt",
	"t2_identity_response", "t2_identity_rt",
	"t1_colour", "t2_colour",
	"t1_ang_err", "t1_ang_err_rt",
	"t2_ang_err", "t2_ang_err_rt",
	"t1_wheel_rotation", "t2_wheel_rotation",
}

// Columns returns the column names in output order.
func Columns() []string {
	return append([]string(nil), columns...)
}

// Values returns the record's fields in Columns order.
func (r Record) Values() []string {
	return []string{
		r.SessionID, r.Participant, strconv.FormatBool(r.Practice),
		strconv.Itoa(r.BlockNum), strconv.Itoa(r.TrialNum), r.BlockType,
		strconv.Itoa(r.T1Time), strconv.Itoa(r.T2Time), strconv.Itoa(r.Lag),
		r.T1Identity, r.T2Identity,
		r.T1IdentityResponse, r.T1IdentityRT,
		r.T2IdentityResponse, r.T2IdentityRT,
		r.T1Colour, r.T2Colour,
		r.T1AngErr, r.T1AngErrRT,
		r.T2AngErr, r.T2AngErrRT,
		strconv.Itoa(r.T1WheelRotation), strconv.Itoa(r.T2WheelRotation),
	}
}

// FormatColour renders a colour the way it is stored: "(r, g, b, a)".
func FormatColour(c color.RGBA) string {
	return fmt.Sprintf("(%d, %d, %d, %d)", c.R, c.G, c.B, c.A)
}

// Sink receives trial records as they are completed.
type Sink interface {
	Write(ctx context.Context, r Record) error
	Close() error
}

// Multi writes every record to each sink in turn.
type Multi []Sink

func (m Multi) Write(ctx context.Context, r Record) error {
	for _, s := range m {
		if err := s.Write(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

func (m Multi) Close() error {
	var first error
	for _, s := range m {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
