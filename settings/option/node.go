package option

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cqlstress/cql-stress/settings/param"
)

// NodeOption selects the cluster contact points.
type NodeOption struct {
	Nodes      []string
	Whitelist  bool
	Datacenter string
}

const NodeCLIString = "-node"

func NodeDescription() string {
	return "Nodes to connect to"
}

type nodeParamHandles struct {
	datacenter *param.SimpleParam
	whitelist  *param.SimpleParam
	file       *param.SimpleParam
	nodes      *param.SimpleParam
}

func nodeParser() (*param.ParamsParser, nodeParamHandles) {
	pp := param.NewParamsParser(NodeCLIString)

	datacenter := pp.Simple(
		"datacenter=",
		param.PatternAny,
		"",
		"Preferred datacenter for the default load balancing policy",
		false,
	)
	whitelist := pp.Simple(
		"whitelist",
		param.PatternFlag,
		"",
		"Limit communications to the provided nodes",
		false,
	)
	file := pp.Simple("file=", param.PatternAny, "", "Node file (one per line)", false)
	nodes := pp.Simple(
		"",
		param.PatternCommaList,
		"localhost",
		"comma delimited list of nodes",
		false,
	)

	// $ cql-stress-cassandra-stress help -node
	// Usage: -node [datacenter=?] [whitelist] []
	//  OR
	// Usage: -node [datacenter=?] [whitelist] [file=?]
	pp.Group(datacenter, whitelist, nodes)
	pp.Group(datacenter, whitelist, file)

	return pp, nodeParamHandles{
		datacenter: datacenter,
		whitelist:  whitelist,
		file:       file,
		nodes:      nodes,
	}
}

func ParseNodeOption(payload ParsePayload) (*NodeOption, error) {
	pp, handles := nodeParser()
	if err := pp.Parse(payload.Take(NodeCLIString)); err != nil {
		return nil, err
	}
	return nodeFromHandles(handles)
}

func nodeFromHandles(handles nodeParamHandles) (*NodeOption, error) {
	opt := &NodeOption{
		Datacenter: handles.datacenter.GetString(),
		Whitelist:  handles.whitelist.SuppliedByUser(),
	}

	// Parameter grouping guarantees at most one of `nodes`/`file` carries a
	// value, and `nodes` defaults to localhost in its group.
	if nodes, ok := handles.nodes.Get(); ok {
		opt.Nodes = strings.Split(nodes, ",")
		return opt, nil
	}

	file, ok := handles.file.Get()
	if !ok {
		return nil, fmt.Errorf("no nodes specified")
	}
	nodes, err := readNodesFromFile(file)
	if err != nil {
		return nil, err
	}
	opt.Nodes = nodes
	return opt, nil
}

func readNodesFromFile(filename string) ([]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("invalid nodes file: %s", err)
	}
	defer file.Close()

	var nodes []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			nodes = append(nodes, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("invalid nodes file: %s", err)
	}
	return nodes, nil
}

func NodeHelp(w io.Writer) {
	pp, _ := nodeParser()
	pp.WriteHelp(w)
}

func (o *NodeOption) WriteSettings(w io.Writer) {
	fmt.Fprintln(w, "Node:")
	writeSetting(w, "Nodes", o.Nodes)
	writeSetting(w, "Is White List", o.Whitelist)
	writeSetting(w, "Datacenter", o.Datacenter)
}
