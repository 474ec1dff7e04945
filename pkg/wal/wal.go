// Package wal 提供 append-only 的 JSON Lines 日誌檔
// 帳本用它記錄每一筆已套用的交易供稽核，不做重放
package wal

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"
)

// FileModeReadOnly rw-r--r-- (擁有者讀寫，其他人唯讀)
const FileModeReadOnly fs.FileMode = 0644

// WAL 一個執行緒安全的 append-only 檔案
type WAL struct {
	file *os.File
	mu   sync.Mutex
	// syncOnWrite: 每次寫入後是否 fsync
	syncOnWrite bool
	// sessionStart: Open 時的檔案大小，之後的資料都是本次執行寫入的
	sessionStart int64
}

// Option 定義 WAL 的配置選項函數
type Option func(*WAL)

// WithSyncOnWrite 每次 Append 後都呼叫 fsync
func WithSyncOnWrite(enabled bool) Option {
	return func(w *WAL) {
		w.syncOnWrite = enabled
	}
}

// Open 開啟或建立一個日誌檔
// O_RDWR讀寫模式
// O_APPEND 每次寫入時自動跳到文件末尾
// O_CREATE 如果文件不存在則建立
func Open(path string, opts ...Option) (*WAL, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, FileModeReadOnly)
	if err != nil {
		return nil, fmt.Errorf("open wal %s: %w", path, err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("stat wal %s: %w", path, err)
	}
	w := &WAL{file: file, syncOnWrite: true, sessionStart: info.Size()}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Append 以一行 JSON 寫入一筆資料
func (w *WAL) Append(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := json.NewEncoder(w.file).Encode(v); err != nil {
		return err
	}
	if w.syncOnWrite {
		return w.file.Sync()
	}
	return nil
}

// Sync 強制刷入硬碟
func (w *WAL) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Sync()
}

// Close 關閉檔案
func (w *WAL) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}

// ReadAll 從頭依序讀取所有資料，包含先前執行留下的紀錄
// callback 每次收到一行原始 JSON，避免一次將所有資料載入記憶體
func (w *WAL) ReadAll(callback func(jsonRaw []byte) error) error {
	return w.readFrom(0, callback)
}

// ReadSession 只讀取本次 Open 之後寫入的資料
func (w *WAL) ReadSession(callback func(jsonRaw []byte) error) error {
	return w.readFrom(w.sessionStart, callback)
}

func (w *WAL) readFrom(offset int64, callback func(jsonRaw []byte) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := w.file.Seek(offset, io.SeekStart); err != nil {
		return err
	}

	decoder := json.NewDecoder(w.file)
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
