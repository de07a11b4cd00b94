package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const editionsCSV = `Series ID,Series Name,Country,City,Attendance,Event Code
apdc,Asia Pacific Dental Congress,Vietnam,Da Nang,"1,200",APDC24
apdc,Asia Pacific Dental Congress,Thailand,Bangkok,950,APDC23
,Nordic Forum,Sweden,Stockholm,80,NF24
,,France,,100,
`

func TestLoadEditions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "editions.csv")
	require.NoError(t, os.WriteFile(path, []byte(editionsCSV), 0o644))

	rows, err := loadEditions(context.Background(), path, "")
	require.NoError(t, err)
	require.Len(t, rows, 3) // nameless row is dropped

	assert.Equal(t, "apdc", rows[0].SeriesID)
	assert.Equal(t, "Asia Pacific Dental Congress", rows[0].SeriesName)
	assert.Equal(t, "Vietnam", rows[0].Edition.Country)
	assert.Equal(t, 1200.0, rows[0].Edition.Attendance)
	assert.Equal(t, "APDC24", rows[0].Edition.EventCode)

	// Missing series ID falls back to the name slug.
	assert.Equal(t, "nordic-forum", rows[2].SeriesID)
	assert.Equal(t, 80.0, rows[2].Edition.Attendance)
}

const iccaEditionsCSV = `SeriesID,SeriesName,COUNTRY,CITY,REGATTEND,ECODE
12345,World Aquaculture Congress,VIETNAM,Da Nang,2100,WAC24
12345,World Aquaculture Congress,SINGAPORE,Singapore,1800,WAC23
`

func TestLoadEditionsICCAHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "icca.csv")
	require.NoError(t, os.WriteFile(path, []byte(iccaEditionsCSV), 0o644))

	rows, err := loadEditions(context.Background(), path, "")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "12345", rows[0].SeriesID)
	assert.Equal(t, "World Aquaculture Congress", rows[0].SeriesName)
	assert.Equal(t, "VIETNAM", rows[0].Edition.Country)
	assert.Equal(t, "Da Nang", rows[0].Edition.City)
	assert.Equal(t, 2100.0, rows[0].Edition.Attendance)
	assert.Equal(t, "WAC24", rows[0].Edition.EventCode)
}

func TestLoadEditionsMissingHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n1,2\n"), 0o644))

	rows, err := loadEditions(context.Background(), path, "")
	require.NoError(t, err)
	assert.Empty(t, rows)
}
