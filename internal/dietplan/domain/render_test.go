package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderInstructions(t *testing.T) {
	out, err := RenderInstructions(
		"Hi {{.PatientName}}, aim for {{.CaloriesTarget}} kcal from {{.StartDate}} to {{.EndDate}}. Water: {{index .Variables \"water\"}}.",
		RenderData{
			PatientName:    "Asha",
			CaloriesTarget: 1800,
			StartDate:      "2025-04-01",
			EndDate:        "2025-04-30",
			Variables:      map[string]string{"water": "3L"},
		},
	)
	require.NoError(t, err)
	assert.Equal(t, "Hi Asha, aim for 1800 kcal from 2025-04-01 to 2025-04-30. Water: 3L.", out)
}

func TestRenderInstructionsErrors(t *testing.T) {
	_, err := RenderInstructions("{{.PatientName", RenderData{})
	assert.ErrorIs(t, err, ErrTemplateRender)

	_, err = RenderInstructions("{{.Unknown}}", RenderData{})
	assert.ErrorIs(t, err, ErrTemplateRender)

	_, err = RenderInstructions("{{.Variables.salt}}", RenderData{})
	assert.ErrorIs(t, err, ErrTemplateRender)
}
