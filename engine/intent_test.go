package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetermineIntent(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name  string
		reply string
		want  Intent
	}{
		{"exact academic label", "ACADEMIC_DOCUMENT_QUERY", IntentAcademic},
		{"exact general label", "GENERAL_CHAT", IntentGeneral},
		{"academic mentioned in prose", "This looks like an academic question.", IntentAcademic},
		{"document mentioned in prose", "The query asks about an uploaded document.", IntentAcademic},
		{"lowercase label", "general_chat", IntentGeneral},
		{"unrelated reply", "I cannot classify this.", IntentGeneral},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			chat := &fakeLLM{reply: tc.reply}
			e := newTestEngine(t, &fakeIndex{}, &fakeLLM{}, chat)
			assert.Equal(t, tc.want, e.DetermineIntent(ctx, "some question"))
		})
	}

	t.Run("classification failure falls back to general", func(t *testing.T) {
		chat := &fakeLLM{err: errors.New("model unavailable")}
		e := newTestEngine(t, &fakeIndex{}, &fakeLLM{}, chat)
		assert.Equal(t, IntentGeneral, e.DetermineIntent(ctx, "some question"))
	})

	t.Run("question is embedded in the prompt", func(t *testing.T) {
		chat := &fakeLLM{reply: "GENERAL_CHAT"}
		e := newTestEngine(t, &fakeIndex{}, &fakeLLM{}, chat)
		e.DetermineIntent(ctx, "What is in unit 3 of the syllabus?")
		require.Len(t, chat.prompts, 1)
		assert.Contains(t, chat.prompts[0], `"What is in unit 3 of the syllabus?"`)
	})
}

func TestSummarize(t *testing.T) {
	ctx := context.Background()

	t.Run("summarizes a text document", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "notes.txt")
		require.NoError(t, os.WriteFile(path,
			[]byte("Unit 1 covers arrays. Unit 2 covers trees."), 0o644))

		chat := &fakeLLM{reply: "- Arrays\n- Trees"}
		e := newTestEngine(t, &fakeIndex{}, &fakeLLM{}, chat)

		assert.Equal(t, "- Arrays\n- Trees", e.Summarize(ctx, path))
		require.Len(t, chat.prompts, 1)
		assert.Contains(t, chat.prompts[0], "Unit 1 covers arrays.")
	})

	t.Run("unsupported file type", func(t *testing.T) {
		chat := &fakeLLM{reply: "unused"}
		e := newTestEngine(t, &fakeIndex{}, &fakeLLM{}, chat)

		assert.Equal(t, "Unsupported file type.", e.Summarize(ctx, "report.exe"))
		assert.Equal(t, 0, chat.calls)
	})

	t.Run("missing file", func(t *testing.T) {
		e := newTestEngine(t, &fakeIndex{}, &fakeLLM{}, &fakeLLM{})
		got := e.Summarize(ctx, filepath.Join(t.TempDir(), "missing.txt"))
		assert.Equal(t, "Could not generate summary.", got)
	})

	t.Run("model failure", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "notes.txt")
		require.NoError(t, os.WriteFile(path, []byte("some content"), 0o644))

		chat := &fakeLLM{err: errors.New("model unavailable")}
		e := newTestEngine(t, &fakeIndex{}, &fakeLLM{}, chat)
		assert.Equal(t, "Could not generate summary.", e.Summarize(ctx, path))
	})

	t.Run("long documents are truncated", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "long.txt")
		require.NoError(t, os.WriteFile(path,
			[]byte(strings.Repeat("a", summaryMaxChars+500)), 0o644))

		chat := &fakeLLM{reply: "- bullets"}
		e := newTestEngine(t, &fakeIndex{}, &fakeLLM{}, chat)

		e.Summarize(ctx, path)
		require.Len(t, chat.prompts, 1)
		assert.Less(t, len(chat.prompts[0]), summaryMaxChars+500)
	})

	t.Run("truncation never splits a rune", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cjk.txt")
		// 3-byte runes with the byte cap off a multiple of 3, so a byte
		// cut would land mid-rune.
		require.NoError(t, os.WriteFile(path,
			[]byte(strings.Repeat("界", summaryMaxChars/3+200)), 0o644))

		chat := &fakeLLM{reply: "- bullets"}
		e := newTestEngine(t, &fakeIndex{}, &fakeLLM{}, chat)

		e.Summarize(ctx, path)
		require.Len(t, chat.prompts, 1)
		assert.True(t, utf8.ValidString(chat.prompts[0]))
	})
}
