package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/localnerve/excel-analyzer/internal/export"
	"github.com/localnerve/excel-analyzer/internal/storage"
)

// DefaultMirrorTimeout bounds one background copy of an exported chart
const DefaultMirrorTimeout = 30 * time.Second

// ExportInput is one export request
type ExportInput struct {
	Base64Image string
	FileName    string
	Format      export.Format
}

// ExportResult is the rendered attachment
type ExportResult struct {
	Body        []byte
	ContentType string
	FileName    string
	Disposition string
}

// Mirror copies exported chart images to the object store in the background.
// Failures are logged and counted, never returned to the exporter.
type Mirror struct {
	Store   storage.ObjectStore
	Prefix  string
	Timeout time.Duration

	wg sync.WaitGroup
}

// Go starts one detached copy. It returns immediately.
func (m *Mirror) Go(data []byte, name, contentType string) {
	if m == nil || m.Store == nil {
		return
	}
	timeout := m.Timeout
	if timeout <= 0 {
		timeout = DefaultMirrorTimeout
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		obj, err := m.Store.Put(ctx, m.Prefix, name, data, contentType)
		if err != nil {
			mirrorFailuresTotal.Inc()
			log.Printf("Chart mirror upload failed for %s: %v", name, err)
			return
		}
		log.Printf("Chart mirrored to %s", obj.URL)
	}()
}

// Wait blocks until every started copy has finished
func (m *Mirror) Wait() {
	if m != nil {
		m.wg.Wait()
	}
}

// Export decodes the chart image, starts the mirror copy and renders the
// requested format.
func Export(in ExportInput, mirror *Mirror) (*ExportResult, error) {
	raster, err := export.DecodeImage(in.Base64Image)
	if err != nil {
		return nil, err
	}

	name := export.SanitizeFileName(in.FileName, in.Format)
	mirror.Go(raster.Encoded, name+"."+raster.ImageFormat, "image/"+raster.ImageFormat)

	body, err := export.Render(raster, in.Format)
	if err != nil {
		return nil, err
	}

	exportsTotal.WithLabelValues(string(in.Format)).Inc()
	return &ExportResult{
		Body:        body,
		ContentType: in.Format.ContentType(),
		FileName:    name + "." + string(in.Format),
		Disposition: export.Disposition(name, in.Format),
	}, nil
}
