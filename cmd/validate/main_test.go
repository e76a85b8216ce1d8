package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "id_bdq,foco_id,lat,lon,data_pas,pais,estado,municipio,bioma\n"

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "focos.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRun_SamplePasses(t *testing.T) {
	var out bytes.Buffer
	code := run("../../internal/csvload/testdata/focos_sample.csv", &out)

	assert.Equal(t, 0, code, out.String())
	assert.Contains(t, out.String(), "All validations passed.")
	assert.Contains(t, out.String(), "Rows: 20")
}

func TestRun_ReportsEveryPhase(t *testing.T) {
	path := writeCSV(t, header+
		"1,a,-27.1,-50.2,2024-08-02 12:00:00,Brasil,SC,LAGES,Pampa\n"+
		"2,b,-27.1,-50.2,2024-08-01 12:00:00,Brasil,SC,LAGES,Pampa\n"+
		"3,c,40.7,-74.0,2024-08-03 12:00:00,Brasil,SC,LAGES,Pampa\n"+
		"4,d,abc,-50.2,2024-08-04 12:00:00,Brasil,SC,LAGES,Pampa\n"+
		"5,e,-27.1,-50.2,2024-08-05 12:00:00,Brasil,SC,,Pampa\n")

	var out bytes.Buffer
	code := run(path, &out)
	report := out.String()

	assert.Equal(t, 1, code)
	for _, phase := range []string{"Row Parsing", "Coordinates Inside Brazil", "Ascending Timestamp Order", "Non-empty Categories"} {
		line := lineContaining(report, phase)
		assert.Contains(t, line, "FAIL", phase)
	}
	assert.Contains(t, report, "line 5")
	assert.Contains(t, report, "line 3: 2024-08-01 12:00:00 is earlier than line 2")
	assert.Contains(t, report, "outside Brazil")
	assert.Contains(t, report, "empty municipio")
}

func TestRun_CapsListing(t *testing.T) {
	var b strings.Builder
	b.WriteString(header)
	for range maxErrorsPerPhase + 5 {
		b.WriteString("1,a,bad,-50.2,2024-08-01 12:00:00,Brasil,SC,LAGES,Pampa\n")
	}

	var out bytes.Buffer
	run(writeCSV(t, b.String()), &out)

	assert.Contains(t, out.String(), "... 5 more")
	assert.Contains(t, out.String(), "FAIL (25 errors)")
}

func TestRun_FatalOnMissingColumns(t *testing.T) {
	var out bytes.Buffer
	code := run(writeCSV(t, "lat,lon\n1,2\n"), &out)

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "FATAL")
}

func lineContaining(s, sub string) string {
	for _, line := range strings.Split(s, "\n") {
		if strings.Contains(line, sub) {
			return line
		}
	}
	return ""
}
