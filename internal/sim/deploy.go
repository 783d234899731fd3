package sim

import (
	"fmt"
	"math/rand"

	"bordersentry/internal/cluster"
	"bordersentry/internal/sensor"
)

// DeployConfig describes the sensor field to stand up.
type DeployConfig struct {
	SensorNodes       int
	ClusterHeads      int
	BorderLength      float64
	InitialBatteryMin float64
	InitialBatteryMax float64
	Node              sensor.Config
}

// Deployment is the deployed network: all sensor nodes spread evenly along
// the border, partitioned into contiguous, non-overlapping clusters. The
// partition is total and fixed for the lifetime of the run.
type Deployment struct {
	Nodes []*sensor.Node
	Heads []*cluster.Head

	byHead map[string][]*sensor.Node
	byID   map[string]*sensor.Node
}

// Deploy builds the network. Starting battery levels are drawn from the
// seeded sensor substream inside the configured initial range.
func Deploy(cfg DeployConfig, rng *rand.Rand) *Deployment {
	perHead := cfg.SensorNodes / cfg.ClusterHeads

	d := &Deployment{
		byHead: make(map[string][]*sensor.Node, cfg.ClusterHeads),
		byID:   make(map[string]*sensor.Node, cfg.SensorNodes),
	}

	memberIDs := make(map[string][]string, cfg.ClusterHeads)
	for i := 0; i < cfg.SensorNodes; i++ {
		headID := fmt.Sprintf("CH%d", i/perHead+1)
		nodeID := fmt.Sprintf("SN%02d", i+1)
		position := float64(i) / float64(cfg.SensorNodes) * cfg.BorderLength

		battery := cfg.InitialBatteryMin
		if spread := cfg.InitialBatteryMax - cfg.InitialBatteryMin; spread > 0 {
			battery += rng.Float64() * spread
		}

		node := sensor.New(nodeID, headID, position, battery, cfg.Node, rng)
		d.Nodes = append(d.Nodes, node)
		d.byHead[headID] = append(d.byHead[headID], node)
		d.byID[nodeID] = node
		memberIDs[headID] = append(memberIDs[headID], nodeID)
	}

	for i := 0; i < cfg.ClusterHeads; i++ {
		headID := fmt.Sprintf("CH%d", i+1)
		d.Heads = append(d.Heads, cluster.NewHead(headID, memberIDs[headID]))
	}

	return d
}

// NodesOf returns the member nodes of a cluster head in aggregation order.
func (d *Deployment) NodesOf(headID string) []*sensor.Node {
	return d.byHead[headID]
}

// Node returns a node by ID, or nil.
func (d *Deployment) Node(id string) *sensor.Node {
	return d.byID[id]
}

// InactiveCount returns the number of nodes currently inactive on battery.
func (d *Deployment) InactiveCount() int {
	n := 0
	for _, node := range d.Nodes {
		if !node.Active() {
			n++
		}
	}
	return n
}
