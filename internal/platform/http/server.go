// Package http provides the HTTP server settings shared by the commands.
package http

import (
	"net/http"
	"time"
)

// NewServer は本番向けのタイムアウトを設定した http.Server を作成します。
//
// 設定:
//   - ReadHeaderTimeout: Slowloris 対策
//   - ReadTimeout / WriteTimeout: リクエスト全体の上限
//   - IdleTimeout: Keep-Alive 接続の維持期間
//
// 注意:
//   - http.ListenAndServe はタイムアウトを持たないため、常にこのサーバーを使用すること
func NewServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}
}
