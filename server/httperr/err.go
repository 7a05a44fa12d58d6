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

package httperr

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/zintix-labs/routewalk/errs"
	"github.com/zintix-labs/routewalk/hook"
	"github.com/zintix-labs/routewalk/server/netsvr/middleware"
)

// StatusCode 將錯誤映射成 HTTP status code。
//
// 規則（邊界層最小映射、可預期）：
//   - ctx timeout/cancel → 504/408（請求生命週期問題）
//   - errs.Warn         → 400（請求/參數問題，通常由 hook 自行回傳）
//   - errs.Fatal        → 500（系統/不可恢復問題）
//
// 注意：本函數屬於 HTTP 邊界層，因此放在 server/*（而不是 core errs）。
func StatusCode(err error) int {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout // 504
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout // 408
	default:
	}

	// chain 包裝 hook 錯誤時沿用其等級，hook 回傳的 Warn 仍會映射成 400
	var e *errs.E
	if errors.As(err, &e) {
		switch e.ErrLv {
		case errs.Warn:
			status = http.StatusBadRequest // 400
		case errs.Fatal:
			status = http.StatusInternalServerError // 500
		default:
			status = http.StatusInternalServerError
		}
	}

	return status
}

// Errs 決定 status code 並寫回簡單的 http.Error。
// 5xx 只回應標準狀態文字，不把內部錯誤細節送到客戶端。
func Errs(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	status := StatusCode(err)
	msg := err.Error()
	if status >= 500 {
		msg = http.StatusText(status)
	}
	http.Error(w, msg, status)
}

func Log(log *slog.Logger, msg string, err error, attrs ...slog.Attr) {
	if err == nil || log == nil {
		return
	}
	status := StatusCode(err)
	attrs = append(attrs, slog.Int("status", status), slog.Any("err", err))
	switch {
	case status == 408 || status == 409 || status == 429:
		log.LogAttrs(context.Background(), slog.LevelWarn, msg, attrs...)
	case status >= 500 && status < 600:
		log.LogAttrs(context.Background(), slog.LevelError, msg, attrs...)
	default:
		log.LogAttrs(context.Background(), slog.LevelInfo, msg, attrs...)
	}
}

// Handler 回傳給 hook chain 使用的 ErrorHandler：記錄錯誤（附 request id 與 path）並回應。
func Handler(log *slog.Logger) hook.ErrorHandler {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		Log(log, "hook.chain.failed", err,
			slog.String("req_id", middleware.GetReqId(r)),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
		Errs(w, err)
	}
}
