package ecsjson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	jsonpatch "github.com/evanphx/json-patch/v5"
)

const (
	familyKey      = "family"
	serviceNameKey = "serviceName"
	nameKey        = "name"
	containersKey  = "containerDefinitions"
)

type inputItem struct {
	TaskDefinition    json.RawMessage   `json:"task_def_input"`
	ServiceDefinition json.RawMessage   `json:"service_def_input"`
	Containers        []json.RawMessage `json:"container_def_input"`
}

// Input is the additional-input document: a list of items, each holding any
// of task_def_input, service_def_input and container_def_input. Matching
// fragments are merged into the generated definitions as JSON merge patches.
type Input []inputItem

// LoadInput reads the additional-input file. An empty path yields no input.
func LoadInput(path string) (Input, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadInput, err)
	}

	var in Input
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadInput, path, err)
	}

	return in, nil
}

// TaskDefinition renders td with every task_def_input whose family matches
// and every container_def_input entry whose name matches a container.
func (in Input) TaskDefinition(td TaskDefinition) ([]byte, error) {
	doc, err := json.Marshal(td)
	if err != nil {
		return nil, err
	}

	for _, item := range in {
		if keyEquals(item.TaskDefinition, familyKey, td.Family) {
			if doc, err = jsonpatch.MergePatch(doc, item.TaskDefinition); err != nil {
				return nil, fmt.Errorf("%w: task %s: %w", ErrOverlay, td.Family, err)
			}
		}

		if len(item.Containers) > 0 {
			if doc, err = patchContainers(doc, item.Containers); err != nil {
				return nil, fmt.Errorf("%w: task %s: %w", ErrOverlay, td.Family, err)
			}
		}
	}

	return render(doc)
}

// ServiceDefinition renders sd with the first service_def_input whose
// serviceName matches.
func (in Input) ServiceDefinition(sd ServiceDefinition) ([]byte, error) {
	doc, err := json.Marshal(sd)
	if err != nil {
		return nil, err
	}

	for _, item := range in {
		if !keyEquals(item.ServiceDefinition, serviceNameKey, sd.ServiceName) {
			continue
		}

		if doc, err = jsonpatch.MergePatch(doc, item.ServiceDefinition); err != nil {
			return nil, fmt.Errorf("%w: service %s: %w", ErrOverlay, sd.ServiceName, err)
		}

		break
	}

	return render(doc)
}

func patchContainers(doc []byte, patches []json.RawMessage) ([]byte, error) {
	var td map[string]json.RawMessage
	if err := json.Unmarshal(doc, &td); err != nil {
		return nil, err
	}

	var containers []json.RawMessage
	if err := json.Unmarshal(td[containersKey], &containers); err != nil {
		return doc, nil //nolint:nilerr // a task without containers has nothing to patch
	}

	for i, c := range containers {
		var head struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(c, &head); err != nil {
			return nil, err
		}

		for _, p := range patches {
			if !keyEquals(p, nameKey, head.Name) {
				continue
			}

			patched, err := jsonpatch.MergePatch(c, p)
			if err != nil {
				return nil, err
			}

			containers[i] = patched

			break
		}
	}

	raw, err := json.Marshal(containers)
	if err != nil {
		return nil, err
	}

	td[containersKey] = raw

	return json.Marshal(td)
}

func keyEquals(raw json.RawMessage, key, want string) bool {
	if len(raw) == 0 {
		return false
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return false
	}

	var got string
	if err := json.Unmarshal(fields[key], &got); err != nil {
		return false
	}

	return got == want
}

// render re-encodes doc with sorted keys and two-space indentation.
func render(doc []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(doc))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}

	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
