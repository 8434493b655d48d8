package journal

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"
)

// fileMode rw-r--r-- (擁有者讀寫，其他人唯讀)
const fileMode fs.FileMode = 0644

// Journal 只追加的 JSON Lines 檔案，每筆紀錄一行
type Journal struct {
	file   *os.File
	writer *bufio.Writer
	// syncEach 每次 Append 後是否 fsync
	syncEach bool
	mu       sync.Mutex
}

// Option 定義了 Journal 的配置選項函數
type Option func(*Journal)

// WithSyncEachWrite 每次寫入都刷入硬碟 (較慢但較安全)
func WithSyncEachWrite() Option {
	return func(j *Journal) {
		j.syncEach = true
	}
}

// Open 開啟或建立一個 journal 檔案
// O_RDWR讀寫模式
// O_APPEND 每次寫入時自動跳到文件末尾
// O_CREATE 如果文件不存在則建立
func Open(path string, opts ...Option) (*Journal, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, fileMode)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	j := &Journal{
		file:   file,
		writer: bufio.NewWriter(file),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j, nil
}

// Append 寫入一筆資料
func (j *Journal) Append(v any) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := json.NewEncoder(j.writer).Encode(v); err != nil {
		return err
	}
	if !j.syncEach {
		return j.writer.Flush()
	}
	return j.flushAndSync()
}

func (j *Journal) flushAndSync() error {
	if err := j.writer.Flush(); err != nil {
		return err
	}
	return j.file.Sync()
}

// Close 刷入後關閉檔案
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.flushAndSync(); err != nil {
		_ = j.file.Close()
		return err
	}
	return j.file.Close()
}

// ReadAll 依序讀取所有紀錄
// callback 接收每一行的原始 JSON，避免一次將所有資料載入記憶體
func (j *Journal) ReadAll(callback func(raw json.RawMessage) error) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.writer.Flush(); err != nil {
		return err
	}
	// 確保從頭讀取
	if _, err := j.file.Seek(0, io.SeekStart); err != nil {
		return err
	}

	decoder := json.NewDecoder(j.file)
	for {
		var raw json.RawMessage
		if err := decoder.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if err := callback(raw); err != nil {
			return err
		}
	}
}
