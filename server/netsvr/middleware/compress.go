// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package middleware

import (
	"bufio"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// CompressConfig 設定壓縮等級。
type CompressConfig struct {
	GzipLevel int
	ZstdLevel zstd.EncoderLevel
}

var DefaultCompressConfig = CompressConfig{
	GzipLevel: gzip.DefaultCompression,
	ZstdLevel: zstd.SpeedFastest,
}

// Compressor 持有自己的 writer pool，不同設定的 Compressor 互不影響。
type Compressor struct {
	cfg      CompressConfig
	gzipPool sync.Pool
	zstdPool sync.Pool
}

func NewCompressor(cfg CompressConfig) *Compressor {
	return &Compressor{cfg: cfg}
}

var defaultCompressor = NewCompressor(DefaultCompressConfig)

// Compression 以預設設定壓縮回應（zstd 優先，其次 gzip）。
func Compression(next http.Handler) http.Handler {
	return defaultCompressor.Handler(next)
}

func (c *Compressor) zstdWriter(w io.Writer) (*zstd.Encoder, error) {
	if v := c.zstdPool.Get(); v != nil {
		zw := v.(*zstd.Encoder)
		zw.Reset(w)
		return zw, nil
	}
	return zstd.NewWriter(w,
		zstd.WithEncoderLevel(c.cfg.ZstdLevel),
		zstd.WithEncoderConcurrency(1),
	)
}

func (c *Compressor) gzipWriter(w io.Writer) (*gzip.Writer, error) {
	if v := c.gzipPool.Get(); v != nil {
		gw := v.(*gzip.Writer)
		gw.Reset(w)
		return gw, nil
	}
	return gzip.NewWriterLevel(w, c.cfg.GzipLevel)
}

// encoder 把 gzip / zstd 收斂成同一組操作。
type encoder interface {
	io.Writer
	Flush() error
	Close() error
	Reset(w io.Writer)
}

// Handler 是 middleware 入口。
func (c *Compressor) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead || isWebSocketUpgrade(r) || w.Header().Get("Content-Encoding") != "" {
			next.ServeHTTP(w, r)
			return
		}

		var (
			enc     encoder
			release func()
			name    string
		)
		accepted := acceptedEncodings(r.Header.Get("Accept-Encoding"))
		switch {
		case accepted["zstd"]:
			zw, err := c.zstdWriter(w)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			enc, name = zw, "zstd"
			release = func() { c.zstdPool.Put(zw) }
		case accepted["gzip"]:
			gw, err := c.gzipWriter(w)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			enc, name = gw, "gzip"
			release = func() { c.gzipPool.Put(gw) }
		default:
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("Content-Encoding", name)
		w.Header().Add("Vary", "Accept-Encoding")
		cw := &compressResponseWriter{ResponseWriter: w, w: enc}
		defer func() {
			// 204/304 不可帶 body：把 footer 丟進 io.Discard
			if cw.disabled {
				enc.Reset(io.Discard)
			}
			_ = enc.Close()
			release()
		}()
		next.ServeHTTP(cw, r)
	})
}

// acceptedEncodings 解析 Accept-Encoding，q=0 視為拒絕。
func acceptedEncodings(h string) map[string]bool {
	out := make(map[string]bool, 2)
	for _, part := range strings.Split(h, ",") {
		fields := strings.Split(strings.TrimSpace(part), ";")
		name := strings.ToLower(strings.TrimSpace(fields[0]))
		if name == "" {
			continue
		}
		ok := true
		for _, f := range fields[1:] {
			f = strings.TrimSpace(f)
			if q, found := strings.CutPrefix(f, "q="); found {
				if v, err := strconv.ParseFloat(q, 64); err == nil && v <= 0 {
					ok = false
				}
			}
		}
		out[name] = ok
	}
	return out
}

func isWebSocketUpgrade(r *http.Request) bool {
	return strings.Contains(strings.ToLower(r.Header.Get("Connection")), "upgrade") ||
		r.Header.Get("Upgrade") != ""
}

func isNoBodyStatus(code int) bool {
	return (code >= 100 && code < 200) || code == http.StatusNoContent || code == http.StatusNotModified
}

type compressResponseWriter struct {
	http.ResponseWriter
	w        encoder
	disabled bool
}

func (cw *compressResponseWriter) Write(b []byte) (int, error) {
	if cw.disabled {
		return cw.ResponseWriter.Write(b)
	}
	cw.Header().Del("Content-Length")
	if cw.Header().Get("Content-Type") == "" {
		cw.Header().Set("Content-Type", http.DetectContentType(b))
	}
	return cw.w.Write(b)
}

func (cw *compressResponseWriter) WriteHeader(code int) {
	cw.Header().Del("Content-Length")
	if isNoBodyStatus(code) {
		cw.disabled = true
		cw.Header().Del("Content-Encoding")
		cw.Header().Del("Vary")
	}
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *compressResponseWriter) Flush() {
	if !cw.disabled {
		_ = cw.w.Flush()
	}
	if f, ok := cw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (cw *compressResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := cw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("underlying response writer does not support Hijacker")
	}
	return hj.Hijack()
}
