package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCells(t *testing.T) {
	cells, err := parseCells(" 1:13, 1:14 ,")
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{1, 13}, {1, 14}}, cells)

	for _, raw := range []string{"", "1-13", "x:13", "1:y"} {
		_, err := parseCells(raw)
		assert.Error(t, err, raw)
	}
}

func TestPrintReportCountsFailures(t *testing.T) {
	failed := printReport([]step{{Name: "login"}, {Name: "save", Err: errors.New("boom")}})
	assert.Equal(t, 1, failed)
}
