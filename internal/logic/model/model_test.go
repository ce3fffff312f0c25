package model_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skillcoder/specctl/internal/logic/model"
)

func TestModel_WorkloadOf(t *testing.T) {
	t.Parallel()

	m := &model.Model{
		Workloads: []model.Workload{{Name: "api"}, {Name: "worker"}},
		Services: []model.Service{
			{Name: "api", Workload: 0},
			{Name: "orphan", Workload: model.NoWorkload},
			{Name: "broken", Workload: 7},
		},
	}

	require.Equal(t, "api", m.WorkloadOf(&m.Services[0]).Name)
	require.Nil(t, m.WorkloadOf(&m.Services[1]))
	require.Nil(t, m.WorkloadOf(&m.Services[2]))
}

func TestModel_AddNamespace(t *testing.T) {
	t.Parallel()

	m := &model.Model{}
	for _, ns := range []string{"prod", "", "dev", "prod", "stage"} {
		m.AddNamespace(ns)
	}

	require.Equal(t, []string{"dev", "prod", "stage"}, m.Namespaces)
}

func TestModel_Parameters(t *testing.T) {
	t.Parallel()

	m := &model.Model{Parameters: []model.Parameter{
		{Path: model.ParameterPath("cfg", "A"), Value: "1"},
		{Path: model.ParameterPath("sec", "B"), Value: "Mg==", Secret: true},
	}}

	require.Equal(t, []model.Parameter{{Path: "/cfg/A", Value: "1"}}, m.ConfigParameters())
	require.Equal(t, []model.Parameter{{Path: "/sec/B", Value: "Mg==", Secret: true}}, m.SecretParameters())
}

func TestService_AddTargetGroup(t *testing.T) {
	t.Parallel()

	s := &model.Service{}
	s.AddTargetGroup("a")
	s.AddTargetGroup("b")
	s.AddTargetGroup("a")

	require.Equal(t, []string{"a", "b"}, s.TargetGroups)
}
