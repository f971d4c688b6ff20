package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value",
			args:    []string{"-a", ":9999", "-x", "noise"},
			allowed: []string{"-a"},
			want:    []string{"-a", ":9999"},
		},
		{
			name:    "equals form",
			args:    []string{"--config=conf.json", "-d=dsn"},
			allowed: []string{"--config"},
			want:    []string{"--config=conf.json"},
		},
		{
			name:    "flag without value",
			args:    []string{"-o", "-a", ":9999"},
			allowed: []string{"-o"},
			want:    []string{"-o"},
		},
		{
			name:    "nothing allowed",
			args:    []string{"-a", ":9999"},
			allowed: nil,
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterArgs(tt.args, tt.allowed)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJsonConfigFlags(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"test", "-c", "conf.json", "-a", ":9999"}
	assert.Equal(t, "conf.json", JsonConfigFlags())

	os.Args = []string{"test", "-config=other.json"}
	assert.Equal(t, "other.json", JsonConfigFlags())

	os.Args = []string{"test", "-a", ":9999"}
	assert.Equal(t, "", JsonConfigFlags())
}
