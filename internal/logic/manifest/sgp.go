package manifest

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// SecurityGroupPolicyGVR is the resource served by the VPC resource controller.
var SecurityGroupPolicyGVR = schema.GroupVersionResource{
	Group:    "vpcresources.k8s.aws",
	Version:  "v1beta1",
	Resource: "securitygrouppolicies",
}

// SecurityGroupPolicy attaches security groups to pods selected by pod labels
// or by service account labels.
type SecurityGroupPolicy struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec SecurityGroupPolicySpec `json:"spec"`
}

type SecurityGroupPolicySpec struct {
	PodSelector            *metav1.LabelSelector `json:"podSelector,omitempty"`
	ServiceAccountSelector *metav1.LabelSelector `json:"serviceAccountSelector,omitempty"`
	SecurityGroups         GroupIDs              `json:"securityGroups"`
}

type GroupIDs struct {
	Groups []string `json:"groupIds,omitempty"`
}

// DeepCopyInto copies the receiver into out.
func (in *SecurityGroupPolicy) DeepCopyInto(out *SecurityGroupPolicy) {
	*out = *in
	in.ObjectMeta.DeepCopyInto(&out.ObjectMeta)

	if in.Spec.PodSelector != nil {
		out.Spec.PodSelector = in.Spec.PodSelector.DeepCopy()
	}

	if in.Spec.ServiceAccountSelector != nil {
		out.Spec.ServiceAccountSelector = in.Spec.ServiceAccountSelector.DeepCopy()
	}

	if in.Spec.SecurityGroups.Groups != nil {
		out.Spec.SecurityGroups.Groups = append([]string(nil), in.Spec.SecurityGroups.Groups...)
	}
}

func (in *SecurityGroupPolicy) DeepCopy() *SecurityGroupPolicy {
	if in == nil {
		return nil
	}

	out := new(SecurityGroupPolicy)
	in.DeepCopyInto(out)

	return out
}

func (in *SecurityGroupPolicy) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}

	return nil
}
