package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/revyl/pwrun/internal/command"
	"github.com/revyl/pwrun/internal/completion"
	"github.com/revyl/pwrun/internal/runner"
	"github.com/revyl/pwrun/internal/terminal"
)

// RunOutput is returned by run_test and run_codegen.
type RunOutput struct {
	Success       bool             `json:"success"`
	Command       string           `json:"command,omitempty"`
	Session       string           `json:"session,omitempty"`
	Notifications []runner.Message `json:"notifications,omitempty"`
	ErrorMessage  string           `json:"error_message,omitempty"`
}

func runOutput(res runner.Result, rec *runner.Recorder, err error) RunOutput {
	out := RunOutput{
		Success:       err == nil,
		Command:       res.Command,
		Session:       res.Session,
		Notifications: rec.Messages(),
	}
	if err != nil {
		out.ErrorMessage = runner.UserMessage(err)
	}
	return out
}

// RunTestInput defines the input parameters for the run_test tool.
type RunTestInput struct {
	Files      []string `json:"files" jsonschema:"Files or folders to run, relative to the workspace root or absolute. Two or more are filtered to .spec.ts and .test.ts files."`
	RepeatEach *int     `json:"repeat_each,omitempty" jsonschema:"Run each test this many times. Values of 0 or 1 run once."`
}

// handleRunTest handles the run_test tool call.
func (s *Server) handleRunTest(ctx context.Context, req *mcp.CallToolRequest, input RunTestInput) (*mcp.CallToolResult, RunOutput, error) {
	var sel command.Selection
	switch len(input.Files) {
	case 0:
	case 1:
		sel.Primary = s.resolve(input.Files[0])
	default:
		for _, f := range input.Files {
			sel.Selected = append(sel.Selected, s.resolve(f))
		}
	}

	var opts runner.RunOptions
	if input.RepeatEach != nil {
		opts.Repeat = command.RepeatFromInt(*input.RepeatEach)
	}

	r, rec := s.runner, &runner.Recorder{}
	r.Notify = rec
	res, err := r.RunTests(ctx, sel, opts)
	return nil, runOutput(res, rec, err), nil
}

// RunCodegenInput defines the input parameters for the run_codegen tool.
type RunCodegenInput struct{}

// handleRunCodegen handles the run_codegen tool call.
func (s *Server) handleRunCodegen(ctx context.Context, req *mcp.CallToolRequest, input RunCodegenInput) (*mcp.CallToolResult, RunOutput, error) {
	r, rec := s.runner, &runner.Recorder{}
	r.Notify = rec
	res, err := r.RunCodegen(ctx, false)
	return nil, runOutput(res, rec, err), nil
}

// CompleteInput defines the input parameters for the complete_config_file tool.
type CompleteInput struct {
	Line       string `json:"line" jsonschema:"Full text of the settings.json line under the cursor"`
	Character  int    `json:"character" jsonschema:"Zero-based cursor offset in UTF-16 code units"`
	LineNumber int    `json:"line_number,omitempty" jsonschema:"Zero-based line number, echoed in item ranges"`
}

// CompleteOutput defines the output for the complete_config_file tool.
type CompleteOutput struct {
	Items []completion.Item `json:"items"`
}

// handleCompleteConfigFile handles the complete_config_file tool call.
func (s *Server) handleCompleteConfigFile(ctx context.Context, req *mcp.CallToolRequest, input CompleteInput) (*mcp.CallToolResult, CompleteOutput, error) {
	items := completion.Complete(ctx, completion.Request{
		Line:       input.Line,
		LineNumber: input.LineNumber,
		Character:  input.Character,
	}, s.root, s.finder)
	if items == nil {
		items = []completion.Item{}
	}
	return nil, CompleteOutput{Items: items}, nil
}

// ListConfigFilesInput defines the input parameters for the list_config_files tool.
type ListConfigFilesInput struct{}

// ListConfigFilesOutput defines the output for the list_config_files tool.
type ListConfigFilesOutput struct {
	Files        []string `json:"files"`
	ErrorMessage string   `json:"error_message,omitempty"`
}

// handleListConfigFiles handles the list_config_files tool call.
func (s *Server) handleListConfigFiles(ctx context.Context, req *mcp.CallToolRequest, input ListConfigFilesInput) (*mcp.CallToolResult, ListConfigFilesOutput, error) {
	if s.root == "" {
		return nil, ListConfigFilesOutput{Files: []string{}, ErrorMessage: "no workspace root"}, nil
	}
	res := s.finder.FindConfigFiles(ctx, s.root)
	if res.Err != nil {
		return nil, ListConfigFilesOutput{Files: []string{}, ErrorMessage: res.Err.Error()}, nil
	}
	files := res.Files
	if files == nil {
		files = []string{}
	}
	return nil, ListConfigFilesOutput{Files: files}, nil
}

// SessionOutputInput defines the input parameters for the session_output tool.
type SessionOutputInput struct {
	Name     string `json:"name,omitempty" jsonschema:"Session name. Defaults to Playwright Tests."`
	MaxBytes int    `json:"max_bytes,omitempty" jsonschema:"Return at most this many trailing bytes"`
}

// SessionOutputOutput defines the output for the session_output tool.
type SessionOutputOutput struct {
	Name         string `json:"name"`
	Output       string `json:"output"`
	Exited       bool   `json:"exited"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// outputSession is a session whose output can be read back.
type outputSession interface {
	terminal.Session
	Output(max int) []byte
}

// handleSessionOutput handles the session_output tool call.
func (s *Server) handleSessionOutput(ctx context.Context, req *mcp.CallToolRequest, input SessionOutputInput) (*mcp.CallToolResult, SessionOutputOutput, error) {
	name := input.Name
	if name == "" {
		name = terminal.TestSessionName
	}
	max := input.MaxBytes
	if max <= 0 {
		max = defaultOutputBytes
	}

	sessions, err := s.host.Sessions()
	if err != nil {
		return nil, SessionOutputOutput{Name: name, ErrorMessage: err.Error()}, nil
	}

	var found outputSession
	for _, sess := range sessions {
		if readable, ok := sess.(outputSession); ok && sess.Name() == name {
			found = readable
		}
	}
	if found == nil {
		return nil, SessionOutputOutput{
			Name:         name,
			ErrorMessage: fmt.Sprintf("no session named %q with readable output", name),
		}, nil
	}

	return nil, SessionOutputOutput{
		Name:   name,
		Output: string(found.Output(max)),
		Exited: found.Exited(),
	}, nil
}
