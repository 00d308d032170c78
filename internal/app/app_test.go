package app

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewReflectApp_Initializers(t *testing.T) {
	app := NewReflectApp()
	require.NotNil(t, app, "NewReflectApp should not return nil")
}
