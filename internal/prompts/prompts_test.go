package prompts

import (
	"testing"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/pkg/errors"

	"conv3d/internal/models"
)

func TestModelTypeChoices_SuppressesEmptyFormats(t *testing.T) {
	choices, err := ModelTypeChoices(models.Counts{GLTF: 3, FBX: 2, OBJ: 0})
	if err != nil {
		t.Fatalf("ModelTypeChoices: %v", err)
	}

	var got []models.ModelType
	for _, c := range choices {
		got = append(got, c.Value)
	}
	want := []models.ModelType{"GLTF", "FBX", models.All}
	if len(got) != len(want) {
		t.Fatalf("choices = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("choices = %v, want %v", got, want)
		}
	}
	if choices[0].Label != "GLTF (3 available)" || choices[2].Label != "ALL (5 available)" {
		t.Errorf("unexpected labels: %+v", choices)
	}
}

func TestModelTypeChoices_NothingAvailable(t *testing.T) {
	_, err := ModelTypeChoices(models.Counts{})
	if !errors.Is(err, ErrNothingToConvert) {
		t.Fatalf("expected ErrNothingToConvert, got %v", err)
	}
}

func TestMapErr_Interrupt(t *testing.T) {
	if err := mapErr(terminal.InterruptErr); !errors.Is(err, models.ErrInterrupted) {
		t.Fatalf("expected ErrInterrupted, got %v", err)
	}
	if err := mapErr(errors.New("eof")); errors.Is(err, models.ErrInterrupted) {
		t.Fatal("plain error mapped to interrupt")
	}
}
