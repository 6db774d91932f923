package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBank(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "questions.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadValidBank(t *testing.T) {
	path := writeBank(t, `
interview_config:
  title: "Test Interview"
  language: "en"
questions:
  - id: "q1"
    text: "First question?"
    keywords: ["vlookup", "index match"]
  - id: "q2"
    text: "Second question?"
    keywords: ["pivot table"]
`)

	bank, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2, bank.Len())
	assert.Equal(t, "q1", bank.At(0).ID)
	assert.Equal(t, []string{"vlookup", "index match"}, bank.At(0).Keywords)

	q, found := bank.FindByID("q2")
	assert.True(t, found)
	assert.Equal(t, "Second question?", q.Text)

	_, found = bank.FindByID("missing")
	assert.False(t, found)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadEmptyBank(t *testing.T) {
	path := writeBank(t, `
interview_config:
  title: "Empty"
questions: []
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadDuplicateID(t *testing.T) {
	path := writeBank(t, `
questions:
  - id: "q1"
    text: "First?"
    keywords: ["a"]
  - id: "q1"
    text: "Second?"
    keywords: ["b"]
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadQuestionWithoutKeywords(t *testing.T) {
	path := writeBank(t, `
questions:
  - id: "q1"
    text: "First?"
    keywords: []
`)

	_, err := Load(path)
	assert.Error(t, err)
}
