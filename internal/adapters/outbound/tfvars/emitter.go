// Package tfvars writes the translated model as Terraform variable files:
// one shared file for parameters, namespaces and load balancer routing and
// one file per service.
package tfvars

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	"github.com/skillcoder/specctl/internal/logic/model"
)

const (
	emitterName      = "tfvars"
	namespacesDir    = "namespaces"
	defaultNamespace = "default"

	sharedHeader  = "# TFvars generated by parsing K8s ConfigMaps, Secrets, and Namespaces\n"
	serviceHeader = "# TFvars generated by parsing K8s Service and Deployment\n"
)

type Emitter struct {
	logger    *slog.Logger
	outputDir string
	fileName  string
}

func New(logger *slog.Logger, outputDir, fileName string) *Emitter {
	return &Emitter{
		logger:    logger.With("component", emitterName),
		outputDir: outputDir,
		fileName:  fileName,
	}
}

func (e *Emitter) Name() string {
	return emitterName
}

func (e *Emitter) EmitCommand(ctx context.Context, m *model.Model) error {
	shared := filepath.Join(e.outputDir, namespacesDir, e.fileName)
	if err := write(shared, Shared(m)); err != nil {
		return err
	}

	e.logger.InfoContext(ctx, "shared tfvars written",
		"path", shared,
		"parameters", len(m.Parameters),
		"namespaces", len(m.Namespaces),
	)

	for i := range m.Services {
		if err := ctx.Err(); err != nil {
			return err
		}

		svc := &m.Services[i]

		ns := svc.Namespace
		if ns == "" {
			ns = defaultNamespace
		}

		path := filepath.Join(e.outputDir, ns, svc.Name, e.fileName)
		if err := write(path, ServiceFile(svc, m.WorkloadOf(svc))); err != nil {
			return err
		}

		e.logger.DebugContext(ctx, "service tfvars written", "path", path)
	}

	return nil
}

// Shared renders the file holding parameters, secrets, namespaces and the
// routing topology. The namespace list always includes "default".
func Shared(m *model.Model) *hclwrite.File {
	f := newFile(sharedHeader)
	body := f.Body()

	namespaces := slices.Clone(m.Namespaces)
	if !slices.Contains(namespaces, defaultNamespace) {
		namespaces = append(namespaces, defaultNamespace)
	}

	slices.Sort(namespaces)

	body.SetAttributeValue("ssm_parameters", parameters(m.ConfigParameters()))
	body.SetAttributeValue("ssm_secrets", parameters(m.SecretParameters()))
	body.SetAttributeValue("namespaces", strs(namespaces))
	body.SetAttributeValue("load_balancers", loadBalancers(m.Topology.Groups))
	body.SetAttributeValue("listeners", listeners(m.Topology.Listeners))
	body.SetAttributeValue("listener_rules", rules(m.Topology.Rules))
	body.SetAttributeValue("target_groups", targetGroups(m.Topology.TargetGroups))

	return f
}

// ServiceFile renders the per-service file. w may be nil for a service no
// workload was bound to; only the service attributes are written then.
func ServiceFile(svc *model.Service, w *model.Workload) *hclwrite.File {
	f := newFile(serviceHeader)
	body := f.Body()

	body.SetAttributeValue("service_name", str(svc.Name))
	body.SetAttributeValue("service_namespace", str(svc.Namespace))
	body.SetAttributeValue("service_type", str(string(svc.Kind)))
	body.SetAttributeValue("service_tags", labels(svc.Labels))
	body.SetAttributeValue("label_selector", labels(svc.Selector))
	body.SetAttributeValue("aliases", strs(svc.Aliases))

	lbContainer := ""

	if p, ok := svc.LoadBalanced(); ok {
		lbContainer = p.ContainerName

		body.SetAttributeValue("lb_port", num(p.Port))
		body.SetAttributeValue("lb_protocol", str(p.Protocol))
		body.SetAttributeValue("lb_container_port", num(p.ContainerPort))
	}

	if svc.HealthCheckPath != "" {
		body.SetAttributeValue("health_check_path", str(svc.HealthCheckPath))
		body.SetAttributeValue("health_check_grace_period_seconds", num(svc.HealthCheckGracePeriod))
	}

	body.SetAttributeValue("target_groups", strs(svc.TargetGroups))

	if w == nil {
		if lbContainer != "" {
			body.SetAttributeValue("lb_container_name", str(lbContainer))
		}

		return f
	}

	if lbContainer == "" && len(w.Containers) > 0 {
		lbContainer = w.Containers[0].Name
	}

	if lbContainer != "" {
		body.SetAttributeValue("lb_container_name", str(lbContainer))
	}

	body.SetAttributeValue("deployment_name", str(w.Name))
	body.SetAttributeValue("desired_count", num(w.Replicas))
	body.SetAttributeValue("deployment_minimum_healthy_percent", num(w.MinHealthyPercent))
	body.SetAttributeValue("deployment_maximum_percent", num(w.MaxPercent))
	body.SetAttributeValue("deployment_tags", labels(w.Labels))
	body.SetAttributeValue("task_tags", labels(w.PodLabels))
	body.SetAttributeValue("service_account_name", str(w.ServiceAccount))
	body.SetAttributeValue("task_role_arn", str(w.TaskRoleARN))
	body.SetAttributeValue("create_task_role", cty.BoolVal(w.CreateTaskRole))
	body.SetAttributeValue("security_group_ids", strs(w.SecurityGroupIDs))
	body.SetAttributeValue("create_security_group", cty.BoolVal(w.CreateSecurityGroup))

	if w.Feasible && !w.Capacity.IsZero() {
		body.SetAttributeValue("task_cpu", num(w.Capacity.CPU))
		body.SetAttributeValue("task_memory", num(w.Capacity.Memory))
	}

	body.SetAttributeValue("containers", containers(w.Containers))

	return f
}

func newFile(header string) *hclwrite.File {
	f := hclwrite.NewEmptyFile()
	f.Body().AppendUnstructuredTokens(hclwrite.Tokens{
		{Type: hclsyntax.TokenComment, Bytes: []byte(header)},
	})

	return f
}

func write(path string, f *hclwrite.File) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}

	if err := os.WriteFile(path, hclwrite.Format(f.Bytes()), 0o600); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWrite, path, err)
	}

	return nil
}
