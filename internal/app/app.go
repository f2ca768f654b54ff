// Package app is the command surface bound to the webview front-end. Every
// exported method on App becomes a front-end callable; errors reach the
// front-end as strings.
package app

import (
	"context"
	"sync"

	"henji/internal/core/clipboard"
	"henji/internal/logger"
	"henji/internal/remote"

	"github.com/google/uuid"
)

// FileLister reads image files from the clipboard.
type FileLister interface {
	ReadFiles(ctx context.Context) ([]clipboard.FileEntry, error)
}

// ImageCopier writes images to the clipboard.
type ImageCopier interface {
	WriteImage(ctx context.Context, data []byte) error
	WriteImageFile(ctx context.Context, path string) error
}

// TaskClient submits and polls remote generation tasks.
type TaskClient interface {
	SubmitTask(ctx context.Context, apiKey string, req remote.GenerationRequest) (*remote.Task, error)
	TaskStatus(ctx context.Context, apiKey, taskID string) (*remote.TaskStatus, error)
}

// App struct
type App struct {
	files    FileLister
	images   ImageCopier
	tasks    TaskClient
	mediaDir string
	log      *logger.AsyncLogger

	mu  sync.RWMutex
	ctx context.Context
}

// NewApp creates the bound application struct. mediaDir may be empty when
// the directory could not be created at startup.
func NewApp(files FileLister, images ImageCopier, tasks TaskClient, mediaDir string, log *logger.AsyncLogger) *App {
	return &App{
		files:    files,
		images:   images,
		tasks:    tasks,
		mediaDir: mediaDir,
		log:      logger.Or(log),
		ctx:      context.Background(),
	}
}

// Startup is called at application startup
func (a *App) Startup(ctx context.Context) {
	a.mu.Lock()
	a.ctx = ctx
	a.mu.Unlock()
	a.log.Infof("front-end bridge ready (media dir %q)", a.mediaDir)
}

// Shutdown is called at application termination
func (a *App) Shutdown(ctx context.Context) {
	a.log.Infof("front-end bridge shutting down")
	_ = a.log.Sync()
}

func (a *App) callCtx() context.Context {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.ctx
}

// call tags one front-end invocation in the logs.
func (a *App) call(name string) *logger.AsyncLogger {
	return a.log.With("command", name, "call_id", uuid.NewString())
}

// ReadClipboardFiles returns the image files copied to the clipboard as data URLs.
func (a *App) ReadClipboardFiles() ([]clipboard.FileEntry, error) {
	log := a.call("read_clipboard_files")
	entries, err := a.files.ReadFiles(a.callCtx())
	if err != nil {
		log.Errorf("read clipboard files: %v", err)
		return nil, err
	}
	log.Debugf("returning %d clipboard files", len(entries))
	return entries, nil
}

// CopyImageToClipboard decodes raw image bytes and places the image on the clipboard.
func (a *App) CopyImageToClipboard(data []byte) error {
	log := a.call("copy_image_to_clipboard")
	if err := a.images.WriteImage(a.callCtx(), data); err != nil {
		log.Errorf("copy image (%d bytes): %v", len(data), err)
		return err
	}
	return nil
}

// CopyImageFileToClipboard reads an image file and places it on the clipboard.
func (a *App) CopyImageFileToClipboard(filePath string) error {
	log := a.call("copy_image_file_to_clipboard")
	if err := a.images.WriteImageFile(a.callCtx(), filePath); err != nil {
		log.Errorf("copy image file %s: %v", filePath, err)
		return err
	}
	return nil
}

// SubmitTask submits an image-generation task.
func (a *App) SubmitTask(apiKey string, req remote.GenerationRequest) (*remote.Task, error) {
	log := a.call("submit_task")
	task, err := a.tasks.SubmitTask(a.callCtx(), apiKey, req)
	if err != nil {
		log.Errorf("submit task (model %s): %v", req.Model, err)
		return nil, err
	}
	return task, nil
}

// CheckTaskStatus polls an image-generation task once.
func (a *App) CheckTaskStatus(apiKey, taskID string) (*remote.TaskStatus, error) {
	log := a.call("check_task_status")
	status, err := a.tasks.TaskStatus(a.callCtx(), apiKey, taskID)
	if err != nil {
		log.Errorf("check task %s: %v", taskID, err)
		return nil, err
	}
	return status, nil
}

// MediaDir returns the media directory, or "" if it could not be created.
func (a *App) MediaDir() string {
	return a.mediaDir
}
