// Command meshnode runs, inspects, and simulates nodes of the mesh
// protocol engine.
package main

import (
	"bytes"
	"compress/flate"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/gorilla/websocket"
	"github.com/urfave/cli"

	"go.dedis.ch/mesh"
	"go.dedis.ch/mesh/capture"
	"go.dedis.ch/mesh/cfgpath"
	"go.dedis.ch/mesh/config"
	"go.dedis.ch/mesh/dashboard"
	"go.dedis.ch/mesh/link"
	"go.dedis.ch/mesh/log"
	"go.dedis.ch/mesh/node"
	"go.dedis.ch/mesh/telemetry"
)

var defaultCaptureDB = filepath.Join(cfgpath.GetDataPath("meshnode"), "capture.db")

func main() {
	app := cli.NewApp()
	app.Name = "meshnode"
	app.Usage = "run, inspect and simulate mesh protocol nodes"
	app.Flags = []cli.Flag{
		cli.IntFlag{Name: "debug, d", Value: 1, Usage: "debug level: 1 terse, 5 maximal"},
	}
	app.Before = func(c *cli.Context) error {
		log.SetDebugVisible(c.Int("debug"))
		return nil
	}
	app.Commands = []cli.Command{cmdRun, cmdDoctor, cmdDump}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

var cmdRun = cli.Command{
	Name:  "run",
	Usage: "run every node of a roster file in one process over a mock link",
	Flags: []cli.Flag{
		cli.StringFlag{Name: "roster, r", Usage: "path to a roster TOML file"},
		cli.StringFlag{Name: "config, c", Usage: "path to a TOML file with node.mac/timers overrides (§2.3)"},
		cli.StringFlag{Name: "node.mac", Usage: "required: MAC of the roster node to watch, either here or as node.mac in --config"},
		cli.StringFlag{Name: "timers.search_round", Usage: "override the search round timeout, e.g. \"1s\""},
		cli.StringFlag{Name: "timers.leader_tick", Usage: "override the leader tick interval, e.g. \"3s\""},
		cli.StringFlag{Name: "dashboard", Usage: "address to serve the watched node's dashboard on, e.g. :8080"},
		cli.StringFlag{Name: "capture", Value: defaultCaptureDB, Usage: "bbolt database to record every received frame into"},
	},
	Action: func(c *cli.Context) error {
		return runSimulation(c)
	},
}

var cmdDoctor = cli.Command{
	Name:  "doctor",
	Usage: "print one host resource sample, plus a running node's role and tree height, and exit",
	Flags: []cli.Flag{
		cli.StringFlag{Name: "addr, a", Usage: "dashboard address of the node to check, e.g. ws://localhost:8080/ws"},
	},
	Action: func(c *cli.Context) error {
		return runDoctor(c.String("addr"))
	},
}

var cmdDump = cli.Command{
	Name:  "dump",
	Usage: "print one snapshot from a running node's dashboard websocket",
	Flags: []cli.Flag{
		cli.StringFlag{Name: "addr, a", Usage: "dashboard address, e.g. ws://localhost:8080/ws"},
	},
	Action: func(c *cli.Context) error {
		snap, err := fetchSnapshot(c.String("addr"))
		if err != nil {
			return err
		}
		fmt.Printf("self=%s role=%s height=%d\n%s", snap.Self, snap.Role, snap.Height, snap.Tree)
		return nil
	},
}

// loadRunConfig resolves this invocation's NodeConfig from the command
// line merged over an optional TOML file (§2.3): cli flags win, the file
// fills in whatever cli omits, and both default through to the engine's
// stock timers when absent from either.
func loadRunConfig(c *cli.Context) (config.NodeConfig, error) {
	tomlSrc := config.EmptySource()
	if path := c.String("config"); path != "" {
		src, err := config.NewTomlSource(path)
		if err != nil {
			return config.NodeConfig{}, fmt.Errorf("meshnode run: reading --config: %w", err)
		}
		tomlSrc = src
	}
	hub := config.NewSourceHub(config.NewCliSource(c), tomlSrc)
	nodeCfg, err := config.LoadNodeConfig(hub)
	if err != nil {
		return config.NodeConfig{}, fmt.Errorf("meshnode run: resolving node config (set --node.mac or config.node.mac): %w", err)
	}
	return nodeCfg, nil
}

func runSimulation(c *cli.Context) error {
	rosterPath := c.String("roster")
	if rosterPath == "" {
		return fmt.Errorf("meshnode run: --roster is required")
	}
	r, err := loadRoster(rosterPath)
	if err != nil {
		return err
	}

	nodeCfg, err := loadRunConfig(c)
	if err != nil {
		return err
	}
	mesh.SearchRoundTimeout = nodeCfg.SearchRoundTimeout
	mesh.LeaderTickInterval = nodeCfg.LeaderTickInterval

	capturePath := c.String("capture")
	if err := os.MkdirAll(filepath.Dir(capturePath), 0o755); err != nil {
		return fmt.Errorf("meshnode run: preparing capture directory: %w", err)
	}
	store, err := capture.Open(capturePath)
	if err != nil {
		return fmt.Errorf("meshnode run: opening capture database: %w", err)
	}
	defer store.Close()

	mgr := link.NewMockManager()
	meshes := make(map[node.Node]*mesh.Mesh, len(r.nodes))
	for _, n := range r.nodes {
		l, err := mgr.NewLink(n)
		if err != nil {
			return err
		}
		meshes[n] = mesh.New(n, capture.Wrap(l, store))
	}
	for _, e := range r.links {
		mgr.Connect(e.a, e.b, e.rssi)
	}

	watched, ok := meshes[nodeCfg.Self]
	if !ok {
		return fmt.Errorf("meshnode run: node.mac %s is not in the roster", nodeCfg.Self)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	for _, m := range meshes {
		go m.Run(ctx)
	}

	dashboardAddr := c.String("dashboard")
	if dashboardAddr != "" {
		srv := dashboard.New(func() dashboard.Snapshot {
			return dashboard.Snapshot{
				Self:   watched.Self().String(),
				Role:   watched.Role().String(),
				Height: watched.TreeHeight(),
				Tree:   watched.TreeString(),
			}
		}, time.Second)
		go func() {
			if err := dashboard.Run(ctx, dashboardAddr, srv, 5*time.Second); err != nil {
				log.Errorf("meshnode: dashboard: %v", err)
			}
		}()
	}

	log.Lvl1("meshnode: running", len(meshes), "nodes, watching", nodeCfg.Self, "ctrl-C to stop")
	<-ctx.Done()
	return nil
}

// fetchSnapshot dials a running node's dashboard websocket and reads the
// one deflate-compressed Snapshot it sends.
func fetchSnapshot(addr string) (dashboard.Snapshot, error) {
	if addr == "" {
		return dashboard.Snapshot{}, fmt.Errorf("--addr is required")
	}
	conn, _, err := websocket.DefaultDialer.Dial(addr, nil)
	if err != nil {
		return dashboard.Snapshot{}, fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	_, payload, err := conn.ReadMessage()
	if err != nil {
		return dashboard.Snapshot{}, fmt.Errorf("read: %w", err)
	}
	r := flate.NewReader(bytes.NewReader(payload))
	defer r.Close()
	raw, err := io.ReadAll(r)
	if err != nil {
		return dashboard.Snapshot{}, fmt.Errorf("inflate: %w", err)
	}
	var snap dashboard.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return dashboard.Snapshot{}, fmt.Errorf("decode: %w", err)
	}
	return snap, nil
}

// runDoctor takes one host resource sample and, if addr points at a live
// node, one dashboard snapshot, then prints both and returns.
func runDoctor(addr string) error {
	sample, err := telemetry.TakeHostSample()
	if err != nil {
		return fmt.Errorf("meshnode doctor: %w", err)
	}
	fmt.Printf("host: cpu=%.1f%% mem=%d/%d bytes\n", sample.CPUPercent, sample.MemUsedBytes, sample.MemTotalBytes)

	if addr == "" {
		return nil
	}
	snap, err := fetchSnapshot(addr)
	if err != nil {
		return fmt.Errorf("meshnode doctor: %w", err)
	}
	fmt.Printf("node: self=%s role=%s height=%d\n", snap.Self, snap.Role, snap.Height)
	return nil
}
