package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"
)

func TestLoadRunConfigFromCliFlags(t *testing.T) {
	app := cli.NewApp()
	cmd := cli.Command{
		Name: "run",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "config, c"},
			cli.StringFlag{Name: "node.mac"},
			cli.StringFlag{Name: "timers.search_round"},
			cli.StringFlag{Name: "timers.leader_tick"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadRunConfig(c)
			require.NoError(t, err)
			require.Equal(t, "aa:bb:cc:dd:ee:ff", cfg.Self.String())
			require.Equal(t, 250*time.Millisecond, cfg.SearchRoundTimeout)
			return nil
		},
	}
	app.Commands = []cli.Command{cmd}

	require.NoError(t, app.Run([]string{
		"meshnode", "run",
		"--node.mac", "aa:bb:cc:dd:ee:ff",
		"--timers.search_round", "250ms",
	}))
}

func TestLoadRunConfigMissingMACErrors(t *testing.T) {
	app := cli.NewApp()
	cmd := cli.Command{
		Name: "run",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "config, c"},
			cli.StringFlag{Name: "node.mac"},
		},
		Action: func(c *cli.Context) error {
			_, err := loadRunConfig(c)
			require.Error(t, err)
			return nil
		},
	}
	app.Commands = []cli.Command{cmd}

	require.NoError(t, app.Run([]string{"meshnode", "run"}))
}
