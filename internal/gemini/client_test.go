package gemini

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/iksnae/hajimi/internal"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestToContents(t *testing.T) {
	inline, err := internal.NewOpaque([]byte(`{"inlineData":{"mimeType":"image/png","data":"iVBORw0KGgo="}}`))
	require.NoError(t, err)

	turns := []internal.Turn{
		{Role: internal.RoleUser, Fragments: []internal.Fragment{internal.Text{Content: "What is this?"}, inline}},
		internal.NewTextTurn(internal.RoleModel, "A pixel."),
	}

	contents, err := ToContents(turns)
	require.NoError(t, err)
	require.Len(t, contents, 2)

	require.Equal(t, "user", contents[0].Role)
	require.Len(t, contents[0].Parts, 2)
	require.Equal(t, "What is this?", contents[0].Parts[0].Text)
	require.NotNil(t, contents[0].Parts[1].InlineData)
	require.Equal(t, "image/png", contents[0].Parts[1].InlineData.MIMEType)
	require.Equal(t, []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, contents[0].Parts[1].InlineData.Data)

	require.Equal(t, "model", contents[1].Role)
	require.Equal(t, "A pixel.", contents[1].Parts[0].Text)
}

func TestToContents_BadOpaque(t *testing.T) {
	turns := []internal.Turn{{Role: internal.RoleUser, Fragments: []internal.Fragment{
		internal.Opaque{Raw: []byte(`{"inlineData":"not an object"}`)},
	}}}
	_, err := ToContents(turns)
	require.Error(t, err)
}

func TestToModelInfo(t *testing.T) {
	got := ToModelInfo(&genai.Model{Name: "models/gemini-2.5-flash", DisplayName: "Gemini 2.5 Flash"})
	want := internal.ModelInfo{Name: "gemini-2.5-flash", DisplayName: "Gemini 2.5 Flash"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ToModelInfo() mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerationConfig(t *testing.T) {
	cfg := GenerationConfig(Options{Temperature: 0.8, MaxOutputTokens: 8192})
	require.Nil(t, cfg.SystemInstruction)
	require.NotNil(t, cfg.Temperature)
	require.InDelta(t, 0.8, *cfg.Temperature, 1e-6)
	require.Equal(t, int32(8192), cfg.MaxOutputTokens)

	cfg = GenerationConfig(Options{SystemPrompt: "Be brief."})
	require.NotNil(t, cfg.SystemInstruction)
	require.Equal(t, "Be brief.", cfg.SystemInstruction.Parts[0].Text)
}

func TestNew_RequiresKey(t *testing.T) {
	_, err := New(t.Context(), Options{})
	require.Error(t, err)
}
