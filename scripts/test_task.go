package main

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// filter 決定 go 指令輸出的每一行要不要印、用什麼顏色。
type filter func(line string) (show bool, color ANSI_COLOR)

// summaryOnly 只印 ok / FAIL 與編譯失敗的行（等同 grep -E '^(ok|FAIL)'）。
func summaryOnly(line string) (bool, ANSI_COLOR) {
	switch {
	case strings.HasPrefix(line, "ok"):
		return true, ColorGreen
	case strings.HasPrefix(line, "FAIL"):
		return true, ColorRed
	case strings.Contains(line, "build failed") || strings.Contains(line, "setup failed"):
		// grep 過濾太乾淨會看不出為什麼沒反應
		return true, ColorRed
	}
	return false, ColorDefault
}

// detail 印出全部，過濾掉 "[no test files]"。
func detail(line string) (bool, ANSI_COLOR) {
	if strings.Contains(line, "[no test files]") {
		return false, ColorDefault
	}
	ok, c := summaryOnly(line)
	if ok {
		return true, c
	}
	return true, ColorDefault
}

func cleanCache() {
	cleanCmd := exec.Command("go", "clean", "-testcache")
	cleanCmd.Stdout = os.Stdout
	cleanCmd.Stderr = os.Stderr
	if err := cleanCmd.Run(); err != nil {
		PrintRed(fmt.Sprintf("go clean -testcache failed: %v", err))
		os.Exit(1)
	}
}

// runGo 執行 go 子指令，stdout/stderr 合併（2>&1）後逐行交給 f。f 為 nil 時直接轉出。
func runGo(f filter, args ...string) error {
	cmd := exec.Command("go", args...)
	if f == nil {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		return cmd.Run()
	}
	pipe, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	cmd.Stderr = cmd.Stdout
	if err := cmd.Start(); err != nil {
		return err
	}
	scanner := bufio.NewScanner(pipe)
	for scanner.Scan() {
		if ok, c := f(scanner.Text()); ok {
			fmtColor(c, scanner.Text())
		}
	}
	if err := scanner.Err(); err != nil {
		PrintRed(fmt.Sprintf("scanner error: %v", err))
	}
	return cmd.Wait()
}

func runTest() {
	PrintGreen("running tests")
	cleanCache()
	if err := runGo(summaryOnly, "test", "./...", "-cover", "-count=1"); err != nil {
		PrintRed("\nTests Finished with Errors\n")
		os.Exit(1)
	}
}

func runTestAll() {
	PrintGreen("running tests (all with coverage)")
	cleanCache()
	if err := runGo(nil, "test", "./...", "-cover"); err != nil {
		PrintRed("\nTests (with coverage) finished with errors\n")
		os.Exit(1)
	}
}

func runTestDetail() {
	PrintGreen("running tests (detail)")
	cleanCache()
	if err := runGo(detail, "test", "./...", "-v", "-count=1"); err != nil {
		PrintRed("\nTests (detail) finished with errors\n")
		os.Exit(1)
	}
}

// runRoutes 對指定目錄（預設內嵌 demo）做一次 dry-run 探索並印出路由表。
func runRoutes(args []string) {
	PrintGreen("discovering routes")
	if err := runGo(nil, append([]string{"run", "./cmd/routes"}, args...)...); err != nil {
		PrintRed("\nRoute discovery failed\n")
		os.Exit(1)
	}
}
