//go:build amd64

package kernel

import "golang.org/x/sys/cpu"

func init() {
	useLanes(cpu.X86.HasAVX2)
}
