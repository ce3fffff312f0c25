package compose

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	corev1 "k8s.io/api/core/v1"
)

var ErrInvalidPort = errors.New("invalid port")

// Port is a parsed [host:]container[/protocol] triplet. ServicePort is the
// host port when one is given, the container port otherwise.
type Port struct {
	ServicePort   int32
	ContainerPort int32
	Protocol      corev1.Protocol
}

// ParsePort parses the short compose port syntax. A leading host IP
// ("127.0.0.1:8080:80") is ignored. Ranges are not supported.
func ParsePort(raw string) (Port, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Port{}, fmt.Errorf("%w: empty", ErrInvalidPort)
	}

	spec, proto, hasProto := strings.Cut(raw, "/")

	protocol := corev1.ProtocolTCP
	if hasProto {
		switch p := corev1.Protocol(strings.ToUpper(proto)); p {
		case corev1.ProtocolTCP, corev1.ProtocolUDP, corev1.ProtocolSCTP:
			protocol = p
		default:
			return Port{}, fmt.Errorf("%w: %q: unknown protocol %q", ErrInvalidPort, raw, proto)
		}
	}

	parts := strings.Split(spec, ":")

	containerPort, err := portNumber(parts[len(parts)-1])
	if err != nil {
		return Port{}, fmt.Errorf("%w: %q: %w", ErrInvalidPort, raw, err)
	}

	out := Port{ServicePort: containerPort, ContainerPort: containerPort, Protocol: protocol}

	if len(parts) > 1 && parts[len(parts)-2] != "" {
		hostPort, err := portNumber(parts[len(parts)-2])
		if err != nil {
			return Port{}, fmt.Errorf("%w: %q: %w", ErrInvalidPort, raw, err)
		}

		out.ServicePort = hostPort
	}

	return out, nil
}

func portNumber(s string) (int32, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("port %q is not a number", s)
	}

	if n < 1 || n > 65535 {
		return 0, fmt.Errorf("port %d out of range", n)
	}

	return int32(n), nil
}
