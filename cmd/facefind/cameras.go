package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/saturnino-fabrica-de-software/facefind/internal/domain"
	"github.com/saturnino-fabrica-de-software/facefind/internal/frame"
	"github.com/saturnino-fabrica-de-software/facefind/internal/overlay"
	"github.com/saturnino-fabrica-de-software/facefind/internal/recognition"
)

const demoCameraID = "demo"

type cameraLister interface {
	List(ctx context.Context) ([]domain.Camera, error)
}

// cameraSync mirrors backend cameras into recognition sessions
type cameraSync struct {
	manager *recognition.Manager
	display domain.Size
}

// Sync gives an active camera with a snapshot URL a fresh session, replacing
// and stopping any previous one. Other cameras lose their session.
func (s cameraSync) Sync(cam domain.Camera) bool {
	id := strconv.Itoa(cam.ID)
	if !cam.Active || cam.SnapshotURL == "" {
		_ = s.manager.Unregister(id)
		return false
	}
	source := frame.NewSnapshotSource(frame.DefaultSnapshotConfig(cam.SnapshotURL))
	s.manager.Register(id, source, overlay.NewCanvas(s.display))
	return true
}

func (s cameraSync) Remove(cameraID int) {
	_ = s.manager.Unregister(strconv.Itoa(cameraID))
}

// registerCameras registers every active backend camera that exposes a snapshot URL
func registerCameras(ctx context.Context, cameras cameraLister, manager *recognition.Manager, display domain.Size) (int, error) {
	list, err := cameras.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list cameras: %w", err)
	}

	syncer := cameraSync{manager: manager, display: display}
	registered := 0
	for _, cam := range list {
		if syncer.Sync(cam) {
			registered++
		}
	}
	return registered, nil
}

func registerDemo(manager *recognition.Manager, path string, display domain.Size) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read demo image: %w", err)
	}
	img, err := frame.Decode(data)
	if err != nil {
		return fmt.Errorf("decode demo image: %w", err)
	}
	manager.Register(demoCameraID, frame.NewStaticSource(img), overlay.NewCanvas(display))
	return nil
}
