package gnn

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

type checkpointTensor struct {
	Rows int       `json:"rows"`
	Cols int       `json:"cols"`
	Data []float64 `json:"data"`
}

type checkpointFile struct {
	VocabSize int                         `json:"vocab_size"`
	MaxArgs   int                         `json:"max_args"`
	EmbedDim  int                         `json:"embed_dim"`
	HiddenDim int                         `json:"hidden_dim"`
	Tensors   map[string]checkpointTensor `json:"tensors"`
}

// Save serializes the parameter state to path, creating parent directories
// as needed.
func (m *EdgeClassifier) Save(path string) error {
	tensors := make(map[string]checkpointTensor, len(m.params()))
	for _, p := range m.params() {
		rows, cols := p.val.Dims()
		data := make([]float64, 0, rows*cols)
		for i := 0; i < rows; i++ {
			data = append(data, p.val.RawRowView(i)...)
		}
		tensors[p.name] = checkpointTensor{Rows: rows, Cols: cols, Data: data}
	}

	raw, err := json.Marshal(checkpointFile{
		VocabSize: m.cfg.VocabSize,
		MaxArgs:   m.cfg.MaxArgs,
		EmbedDim:  m.cfg.EmbedDim,
		HiddenDim: m.cfg.HiddenDim,
		Tensors:   tensors,
	})
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, raw, 0666)
}

// Load replaces the parameter state with a previously saved checkpoint. The
// checkpoint must match the model's dimensions. A missing file surfaces as an
// fs.ErrNotExist so callers can fall back to fresh initialization.
func (m *EdgeClassifier) Load(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var file checkpointFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("cannot parse checkpoint %v: %w", path, err)
	}

	if file.VocabSize != m.cfg.VocabSize || file.MaxArgs != m.cfg.MaxArgs ||
		file.EmbedDim != m.cfg.EmbedDim || file.HiddenDim != m.cfg.HiddenDim {
		return fmt.Errorf(
			"checkpoint %v was trained with vocab=%v maxArgs=%v embed=%v hidden=%v, model expects vocab=%v maxArgs=%v embed=%v hidden=%v",
			path, file.VocabSize, file.MaxArgs, file.EmbedDim, file.HiddenDim,
			m.cfg.VocabSize, m.cfg.MaxArgs, m.cfg.EmbedDim, m.cfg.HiddenDim,
		)
	}

	for _, p := range m.params() {
		tensor, ok := file.Tensors[p.name]
		if !ok {
			return fmt.Errorf("checkpoint %v is missing tensor %v", path, p.name)
		}
		rows, cols := p.val.Dims()
		if tensor.Rows != rows || tensor.Cols != cols || len(tensor.Data) != rows*cols {
			return fmt.Errorf("checkpoint %v: tensor %v has shape %vx%v, expected %vx%v",
				path, p.name, tensor.Rows, tensor.Cols, rows, cols)
		}
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				p.val.Set(i, j, tensor.Data[i*cols+j])
			}
		}
	}

	return nil
}
