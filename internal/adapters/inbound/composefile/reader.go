// Package composefile decodes compose files and env files.
package composefile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-ini/ini"
	"github.com/google/shlex"
	"gopkg.in/yaml.v3"

	"github.com/skillcoder/specctl/internal/logic/compose"
)

var (
	ErrDecode     = errors.New("decode compose file")
	ErrNoServices = errors.New("compose file has no services")
)

type document struct {
	Services yaml.Node `yaml:"services"`
}

type serviceDoc struct {
	Image       string     `yaml:"image"`
	Ports       portList   `yaml:"ports"`
	Expose      stringList `yaml:"expose"`
	Environment pairList   `yaml:"environment"`
	Labels      pairList   `yaml:"labels"`
	Entrypoint  command    `yaml:"entrypoint"`
	Command     command    `yaml:"command"`
	Deploy      struct {
		Replicas *int32 `yaml:"replicas"`
	} `yaml:"deploy"`
}

// Load reads the compose file at path.
func Load(path string) (compose.Project, error) {
	f, err := os.Open(path)
	if err != nil {
		return compose.Project{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode reads a compose document. Services keep the order of the file.
func Decode(r io.Reader) (compose.Project, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return compose.Project{}, ErrNoServices
		}

		return compose.Project{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	node := &doc.Services
	if node.Kind != yaml.MappingNode || len(node.Content) == 0 {
		return compose.Project{}, ErrNoServices
	}

	project := compose.Project{Services: make([]compose.Service, 0, len(node.Content)/2)}

	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value

		var sd serviceDoc
		if err := node.Content[i+1].Decode(&sd); err != nil {
			return compose.Project{}, fmt.Errorf("%w: service %s: %w", ErrDecode, name, err)
		}

		svc := compose.Service{
			Name:       name,
			Image:      sd.Image,
			Ports:      sd.Ports,
			Expose:     sd.Expose,
			Entrypoint: sd.Entrypoint,
			Command:    sd.Command,
			Replicas:   sd.Deploy.Replicas,
		}

		for _, p := range sd.Environment {
			svc.Environment = append(svc.Environment, compose.EnvVar{Name: p.key, Value: p.value})
		}

		if len(sd.Labels) > 0 {
			svc.Labels = make(map[string]string, len(sd.Labels))
			for _, p := range sd.Labels {
				svc.Labels[p.key] = p.value
			}
		}

		project.Services = append(project.Services, svc)
	}

	return project, nil
}

// LoadEnvFile reads KEY=VALUE lines. Comments start with #.
func LoadEnvFile(path string) (compose.Variables, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		KeyValueDelimiters:  "=",
		IgnoreInlineComment: true,
	}, path)
	if err != nil {
		return nil, fmt.Errorf("load env file %s: %w", path, err)
	}

	return cfg.Section(ini.DefaultSection).KeysHash(), nil
}

// Environ turns os.Environ style entries into variables.
func Environ(entries []string) compose.Variables {
	vars := make(compose.Variables, len(entries))

	for _, e := range entries {
		if k, v, ok := strings.Cut(e, "="); ok && k != "" {
			vars[k] = v
		}
	}

	return vars
}

// portList accepts short syntax scalars and long syntax mappings.
type portList []string

func (p *portList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: ports must be a list", node.Line)
	}

	for _, item := range node.Content {
		switch item.Kind {
		case yaml.ScalarNode:
			*p = append(*p, item.Value)
		case yaml.MappingNode:
			var long struct {
				Target    int32  `yaml:"target"`
				Published string `yaml:"published"`
				Protocol  string `yaml:"protocol"`
			}
			if err := item.Decode(&long); err != nil {
				return err
			}

			s := strconv.Itoa(int(long.Target))
			if long.Published != "" {
				s = long.Published + ":" + s
			}

			if long.Protocol != "" {
				s += "/" + long.Protocol
			}

			*p = append(*p, s)
		default:
			return fmt.Errorf("line %d: unsupported port entry", item.Line)
		}
	}

	return nil
}

type stringList []string

func (s *stringList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: expected a list", node.Line)
	}

	for _, item := range node.Content {
		*s = append(*s, item.Value)
	}

	return nil
}

type pair struct {
	key   string
	value string
}

// pairList accepts a mapping, a list of KEY=VALUE strings or a list of
// single-entry mappings. Mapping order is preserved.
type pairList []pair

func (p *pairList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		p.appendMapping(node)
	case yaml.SequenceNode:
		for _, item := range node.Content {
			switch item.Kind {
			case yaml.MappingNode:
				p.appendMapping(item)
			case yaml.ScalarNode:
				k, v, _ := strings.Cut(item.Value, "=")
				*p = append(*p, pair{key: k, value: v})
			default:
				return fmt.Errorf("line %d: unsupported entry", item.Line)
			}
		}
	default:
		return fmt.Errorf("line %d: expected a mapping or a list", node.Line)
	}

	return nil
}

func (p *pairList) appendMapping(node *yaml.Node) {
	for i := 0; i+1 < len(node.Content); i += 2 {
		*p = append(*p, pair{key: node.Content[i].Value, value: node.Content[i+1].Value})
	}
}

// command accepts a list or a shell-like string.
type command []string

func (c *command) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		parts, err := shlex.Split(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}

		*c = parts
	case yaml.SequenceNode:
		var parts []string
		if err := node.Decode(&parts); err != nil {
			return err
		}

		*c = parts
	default:
		return fmt.Errorf("line %d: command must be a string or a list", node.Line)
	}

	return nil
}
