// Package prompts asks the operator for decisions that were not given as flags.
package prompts

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/pkg/errors"

	"conv3d/internal/models"
)

// ErrNothingToConvert is returned when no format has any available file.
var ErrNothingToConvert = errors.New("no suitable models found in the input directory")

// Prompter asks interactive questions.
type Prompter interface {
	ModelType(counts models.Counts) (models.ModelType, error)
	Components() (bool, error)
	Optimize() (bool, error)
	Overwrite(path string) (bool, error)
	Confirm(message string) (bool, error)
}

// Choice is one entry of the model type menu.
type Choice struct {
	Label string
	Value models.ModelType
}

// ModelTypeChoices builds the model type menu. Formats without files are left out.
func ModelTypeChoices(counts models.Counts) ([]Choice, error) {
	if counts.All() == 0 {
		return nil, ErrNothingToConvert
	}
	var choices []Choice
	for _, f := range models.ModelFormats {
		if n := counts.Of(f); n > 0 {
			choices = append(choices, Choice{
				Label: fmt.Sprintf("%s (%d available)", f, n),
				Value: models.ModelType(f),
			})
		}
	}
	choices = append(choices, Choice{
		Label: fmt.Sprintf("%s (%d available)", models.All, counts.All()),
		Value: models.All,
	})
	return choices, nil
}

// Survey implements Prompter on a terminal.
type Survey struct {
	opts []survey.AskOpt
}

func NewSurvey(opts ...survey.AskOpt) *Survey {
	return &Survey{opts: opts}
}

func (s *Survey) ModelType(counts models.Counts) (models.ModelType, error) {
	choices, err := ModelTypeChoices(counts)
	if err != nil {
		return "", err
	}
	labels := make([]string, len(choices))
	for i, c := range choices {
		labels[i] = c.Label
	}

	var idx int
	q := &survey.Select{
		Message: "Select the type of 3D models to convert:",
		Options: labels,
	}
	if err := survey.AskOne(q, &idx, s.opts...); err != nil {
		return "", mapErr(err)
	}
	return choices[idx].Value, nil
}

func (s *Survey) Components() (bool, error) {
	return s.confirm("Generate .tsx files?", true)
}

func (s *Survey) Optimize() (bool, error) {
	return s.confirm("Optimize output GLB files for web? (recommended)", true)
}

func (s *Survey) Overwrite(path string) (bool, error) {
	return s.confirm("Overwrite the file? "+path, false)
}

func (s *Survey) Confirm(message string) (bool, error) {
	return s.confirm(message, true)
}

func (s *Survey) confirm(message string, def bool) (bool, error) {
	answer := def
	q := &survey.Confirm{Message: message, Default: def}
	if err := survey.AskOne(q, &answer, s.opts...); err != nil {
		return false, mapErr(err)
	}
	return answer, nil
}

func mapErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return models.ErrInterrupted
	}
	return errors.Wrap(err, "prompt failed")
}
