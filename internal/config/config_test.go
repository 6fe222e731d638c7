package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	type want struct {
		runAddress   string
		dataDir      string
		paymentDelay time.Duration
	}

	tests := []struct {
		name  string
		env   map[string]string
		flags []string
		want  want
	}{
		{
			name:  "defaults",
			env:   map[string]string{},
			flags: []string{},
			want: want{
				runAddress:   "localhost:8080",
				dataDir:      "data",
				paymentDelay: 2 * time.Second,
			},
		},
		{
			name: "env only",
			env: map[string]string{
				"RUN_ADDRESS":   "localhost:9999",
				"DATA_DIR":      "/var/lib/servicepoint",
				"PAYMENT_DELAY": "5s",
			},
			flags: []string{},
			want: want{
				runAddress:   "localhost:9999",
				dataDir:      "/var/lib/servicepoint",
				paymentDelay: 5 * time.Second,
			},
		},
		{
			name: "flags only",
			env:  map[string]string{},
			flags: []string{
				"-a", "localhost:7777",
				"-d", "/tmp/sp-data",
				"-p", "250ms",
			},
			want: want{
				runAddress:   "localhost:7777",
				dataDir:      "/tmp/sp-data",
				paymentDelay: 250 * time.Millisecond,
			},
		},
		{
			name: "env overrides flags",
			env: map[string]string{
				"RUN_ADDRESS":   "env:9000",
				"DATA_DIR":      "/env/data",
				"PAYMENT_DELAY": "3s",
			},
			flags: []string{
				"-a", "flag:8000",
				"-d", "/flag/data",
				"-p", "1s",
			},
			want: want{
				runAddress:   "env:9000",
				dataDir:      "/env/data",
				paymentDelay: 3 * time.Second,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)

			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			os.Args = append([]string{"test"}, tt.flags...)

			cfg, err := Parse()
			require.NoError(t, err)

			assert.Equal(t, tt.want.runAddress, cfg.RunAddress)
			assert.Equal(t, tt.want.dataDir, cfg.DataDir)
			assert.Equal(t, tt.want.paymentDelay, cfg.PaymentDelay)
		})
	}
}
