// Package i18n provides the zh/en message catalogs for user-facing
// output.
package i18n

import (
	"fmt"
	"os"
	"strings"
)

// Supported language codes
const (
	LangEnglish = "en"
	LangChinese = "zh"
)

var english = map[string]string{
	"app_description":       "ask: a lightweight terminal AI assistant",
	"config_file_location":  "Config file: %s",
	"dev_mode_notice":       "[dev mode] using config file: %s",
	"interactive_notice":    "👋 Interactive mode. Type 'exit' or 'quit', or press Ctrl+C to leave.",
	"goodbye":               "Bye!",
	"prompt":                "> ",
	"version_info":          "ask version %s",
	"error_prefix":          "Error: %v",
	"error_once_no_query":   "--once requires query text (argument or piped stdin)",
	"warn_bad_stream_event": "warning: skipping malformed stream event: %v",
	"warn_clipboard":        "warning: could not copy to clipboard: %v",
	"copied_to_clipboard":   "✓ copied to clipboard",
	"hint_auth":             "Hint: check the api_key in your config file or the %s environment variable",
	"hint_rate_limit":       "Hint: you are being throttled, try again later or switch models with -m",
	"hint_network":          "Hint: check your network connection and proxy settings",
	"stdin_reopen_failed":   "note: cannot reopen the terminal for interactive input, exiting",
	"thinking":              "Thinking",
}

var chinese = map[string]string{
	"app_description":       "ask：轻量级命令行AI助手工具",
	"config_file_location":  "配置文件位置: %s",
	"dev_mode_notice":       "[开发模式] 使用配置文件: %s",
	"interactive_notice":    "👋 进入交互模式。输入'exit'或'quit'或按Ctrl+C退出。",
	"goodbye":               "再见！",
	"prompt":                "> ",
	"version_info":          "ask 版本 %s",
	"error_prefix":          "错误：%v",
	"error_once_no_query":   "使用--once参数时必须提供查询内容（参数或管道输入）",
	"warn_bad_stream_event": "警告：跳过无法解析的流式事件：%v",
	"warn_clipboard":        "警告：无法复制到剪贴板：%v",
	"copied_to_clipboard":   "✓ 已复制到剪贴板",
	"hint_auth":             "提示：请检查配置文件中的api_key或环境变量 %s",
	"hint_rate_limit":       "提示：请求被限流，请稍后重试或用 -m 切换模型",
	"hint_network":          "提示：请检查网络连接和代理设置",
	"stdin_reopen_failed":   "注意：无法重新打开终端进行交互输入，即将退出",
	"thinking":              "思考中",
}

var current = english

// Init selects the message catalog. "auto" (or "") detects the system
// language from LC_ALL/LANG; anything that is not Chinese falls back to
// English.
func Init(language string) {
	switch language {
	case LangChinese:
		current = chinese
	case LangEnglish:
		current = english
	default:
		if DetectLanguage() == LangChinese {
			current = chinese
		} else {
			current = english
		}
	}
}

// DetectLanguage inspects the locale environment variables
func DetectLanguage() string {
	for _, env := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v := os.Getenv(env)
		if v == "" {
			continue
		}
		if strings.HasPrefix(strings.ToLower(v), "zh") {
			return LangChinese
		}
		return LangEnglish
	}
	return LangEnglish
}

// T returns the translated message for key, formatted with args. An
// unknown key is returned as-is so a missing translation never hides
// output.
func T(key string, args ...any) string {
	text, ok := current[key]
	if !ok {
		if text, ok = english[key]; !ok {
			text = key
		}
	}
	if len(args) == 0 {
		return text
	}
	return fmt.Sprintf(text, args...)
}
