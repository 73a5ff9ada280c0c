package docker

import (
	"fmt"
	"runtime"
)

// PrerequisiteError reports a missing or unusable local tool along with
// instructions for fixing it.
type PrerequisiteError struct {
	Tool    string
	Message string
}

func (e *PrerequisiteError) Error() string {
	return e.Message
}

func formatDockerMissing() string {
	return fmt.Sprintf(`docker is required but not found

The deployment pipeline builds and pushes images with the docker CLI.

%s

After installation, verify with: docker version
`, dockerInstallInstructions())
}

func formatDaemonUnreachable() string {
	switch runtime.GOOS {
	case "darwin", "windows":
		return `cannot connect to the Docker daemon

Start Docker Desktop and wait for it to finish initialising, then retry.
Verify with: docker info
`
	default:
		return `cannot connect to the Docker daemon

Start the daemon and retry:
  • systemd:  sudo systemctl start docker
  • manually: sudo dockerd

If the daemon is running, make sure your user can reach the socket
(usually membership of the "docker" group).
Verify with: docker info
`
	}
}

func formatBuildxMissing() string {
	return `docker buildx is required but not available

Cross-platform image builds need the buildx plugin. Recent Docker Desktop
and docker-ce releases bundle it; on older installations:
  • Debian/Ubuntu: sudo apt install docker-buildx-plugin
  • manual:        https://github.com/docker/buildx#installing

Verify with: docker buildx version
`
}

func dockerInstallInstructions() string {
	switch runtime.GOOS {
	case "darwin":
		return `To install Docker on macOS:
  • Docker Desktop: https://docs.docker.com/desktop/install/mac-install/
  • Homebrew:       brew install --cask docker`
	case "linux":
		return `To install Docker on Linux:
  • Ubuntu/Debian:  https://docs.docker.com/engine/install/ubuntu/
  • Fedora:         https://docs.docker.com/engine/install/fedora/
  • convenience:    curl -fsSL https://get.docker.com | sh`
	case "windows":
		return `To install Docker on Windows:
  • Docker Desktop: https://docs.docker.com/desktop/install/windows-install/
  • Winget:         winget install Docker.DockerDesktop`
	default:
		return `To install Docker:
  • https://docs.docker.com/engine/install/`
	}
}
