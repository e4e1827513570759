package site_test

import (
	"testing"

	"github.com/xSp1der42/disk-site-sub000/internal/domain/site"
	"github.com/stretchr/testify/require"
)

func TestParseVolume(t *testing.T) {
	require.Equal(t, 10.5, site.ParseVolume(10.5))
	require.Equal(t, 7.0, site.ParseVolume("7"))
	require.Equal(t, 2.5, site.ParseVolume("2,5"))
	require.Equal(t, 3.25, site.ParseVolume(" 3.25 "))

	// Unparsable input defaults to 0, never an error.
	require.Equal(t, 0.0, site.ParseVolume("ten"))
	require.Equal(t, 0.0, site.ParseVolume(""))
	require.Equal(t, 0.0, site.ParseVolume(nil))
	require.Equal(t, 0.0, site.ParseVolume([]string{"x"}))
}

func TestParseCoefficient(t *testing.T) {
	require.Equal(t, 0.5, site.ParseCoefficient("0.5"))
	require.Equal(t, 2.0, site.ParseCoefficient(2.0))

	// Unparsable input defaults to 1.
	require.Equal(t, 1.0, site.ParseCoefficient("lots"))
	require.Equal(t, 1.0, site.ParseCoefficient(nil))
}
