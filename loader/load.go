// Package loader reads declarative job files: which tool to run, the values
// to bind onto its parameters, and where the output goes.
package loader

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	mapwindow "github.com/Geoany/MapWindow5"
	"github.com/Geoany/MapWindow5/registry"
)

// JobFile is the on-disk shape of a job declaration.
type JobFile struct {
	Tool       string         `yaml:"tool"`
	Parameters map[string]any `yaml:"parameters,omitempty"`
	Output     OutputDecl     `yaml:"output"`
	Schedule   string         `yaml:"schedule,omitempty"`
}

// OutputDecl declares the output destination of a job.
type OutputDecl struct {
	Name      string `yaml:"name"`
	Memory    bool   `yaml:"memory,omitempty"`
	Overwrite bool   `yaml:"overwrite,omitempty"`
	AddToMap  *bool  `yaml:"add_to_map,omitempty"` // default true
}

// Job is a loaded, resolved job ready to be applied to a controller.
type Job struct {
	ToolName string
	Values   map[string]any
	Output   mapwindow.OutputLayerInfo
	Schedule string
}

// LoadJob reads and parses a job file. Environment variables in the output
// name and string parameter values are expanded.
func LoadJob(path string) (*Job, error) {
	// #nosec G304 -- path from caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading job file %q: %w", path, err)
	}

	var jf JobFile
	if err := yaml.Unmarshal(data, &jf); err != nil {
		return nil, fmt.Errorf("parsing job file %q: %w", path, err)
	}

	toolName := strings.TrimSpace(jf.Tool)
	if toolName == "" {
		return nil, fmt.Errorf("job file %q: tool is required", path)
	}

	values := make(map[string]any, len(jf.Parameters))
	for slot, v := range jf.Parameters {
		if s, ok := v.(string); ok {
			v = os.ExpandEnv(s)
		}
		values[strings.TrimSpace(slot)] = v
	}

	addToMap := true
	if jf.Output.AddToMap != nil {
		addToMap = *jf.Output.AddToMap
	}

	return &Job{
		ToolName: toolName,
		Values:   values,
		Output: mapwindow.OutputLayerInfo{
			Name:        os.ExpandEnv(strings.TrimSpace(jf.Output.Name)),
			MemoryLayer: jf.Output.Memory,
			Overwrite:   jf.Output.Overwrite,
			AddToMap:    addToMap,
		},
		Schedule: strings.TrimSpace(jf.Schedule),
	}, nil
}

// NewController resolves the job's tool from the registry and returns a
// controller with the job's values applied. The controller still needs
// Initialize and Validate before Run.
func (j *Job) NewController(reg *registry.Registry, opts ...mapwindow.ControllerOption) (*mapwindow.Controller, error) {
	tool, ok := reg.New(j.ToolName)
	if !ok {
		return nil, fmt.Errorf("unknown tool %q", j.ToolName)
	}

	ctrl := mapwindow.NewController(tool, opts...)
	if err := j.Apply(ctrl); err != nil {
		return nil, err
	}
	return ctrl, nil
}

// Apply binds the job's parameter values and output destination onto the
// controller's discovered parameters.
func (j *Job) Apply(ctrl *mapwindow.Controller) error {
	for slot, v := range j.Values {
		p := ctrl.Parameter(slot)
		if p == nil {
			return fmt.Errorf("tool %q has no parameter %q", j.ToolName, slot)
		}
		if err := p.SetValue(v); err != nil {
			return fmt.Errorf("tool %q: %w", j.ToolName, err)
		}
	}

	// The output declaration binds to the first output-layer slot.
	for _, p := range ctrl.Parameters() {
		if p.Kind == mapwindow.ParameterKindOutputLayer {
			info := j.Output
			p.Output = &info
			break
		}
	}
	return nil
}
