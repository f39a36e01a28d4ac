// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scrape

import (
	"bytes"
	"context"
	"strings"

	"github.com/pdiddy/bioregistry-curator/internal/container"
)

// AgentTask is handed to the browser agent through the AGENT_TASK
// environment variable. The agent answers with "Label: value" lines.
const AgentTask = `Visit the database homepage given on stdin and report, one per line:
Name: the database name
Prefix: a short lower-case registry prefix
Description: one sentence describing the database
Example: one or more example record identifiers, comma separated
Pattern: a regular expression matching record identifiers
URI Format: the record URL with the identifier replaced by $1
Contact Name: the maintainer's name
Contact Email: the maintainer's email
Contact ORCID: the maintainer's ORCID
Keywords: up to three comma-separated keywords
Write EMPTY for anything you cannot find.`

// ContainerAgent runs a browser-automation agent image through a container
// runtime. The homepage URL is written to the agent's stdin and its stdout
// is parsed with ParseLabeled.
type ContainerAgent struct {
	runtime container.Runtime
	image   string
	env     []string
}

// NewContainerAgent returns an agent that runs image with the extra
// KEY=VALUE pairs in env.
func NewContainerAgent(rt container.Runtime, image string, env []string) *ContainerAgent {
	all := append([]string{"AGENT_TASK=" + AgentTask}, env...)
	return &ContainerAgent{runtime: rt, image: image, env: all}
}

// Scrape runs the agent container for url.
func (a *ContainerAgent) Scrape(ctx context.Context, url string) (Fields, error) {
	var out bytes.Buffer
	spec := container.RunSpec{Image: a.image, Env: a.env}
	err := a.runtime.Run(ctx, spec, strings.NewReader(url+"\n"), &out)

	fields := ParseLabeled(out.String())
	if err != nil {
		if ctx.Err() != nil {
			return fields, ctx.Err()
		}
		return fields, err
	}
	if len(fields) == 0 {
		return nil, &ParseError{Msg: "agent produced no labeled fields"}
	}
	return fields, nil
}
