package main

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptString(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("Panthera onca\n"))
	var out strings.Builder

	got, err := promptString(in, &out, "Enter the species name: ")
	require.NoError(t, err)
	assert.Equal(t, "Panthera onca", got)
	assert.Equal(t, "Enter the species name: ", out.String())
}

func TestPromptStringLastLineWithoutNewline(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("Puma concolor"))
	var out strings.Builder

	got, err := promptString(in, &out, "Enter the species name: ")
	require.NoError(t, err)
	assert.Equal(t, "Puma concolor", got)
}

func TestPromptStringEmptyInput(t *testing.T) {
	in := bufio.NewReader(strings.NewReader(""))
	var out strings.Builder

	_, err := promptString(in, &out, "Enter the species name: ")
	assert.Error(t, err)
}

func TestPromptInt(t *testing.T) {
	in := bufio.NewReader(strings.NewReader(" 2020 \n"))
	var out strings.Builder

	got, err := promptInt(in, &out, "Enter the maximum year for event dates: ")
	require.NoError(t, err)
	assert.Equal(t, 2020, got)
}

func TestPromptIntNotANumber(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("twenty\n"))
	var out strings.Builder

	_, err := promptInt(in, &out, "Enter the minimum year for event dates: ")
	assert.ErrorContains(t, err, `expected an integer, got "twenty"`)
}
