package ui

import tea "github.com/charmbracelet/bubbletea"

func isKey(msg tea.KeyMsg, keys ...string) bool {
	s := msg.String()
	for _, k := range keys {
		if s == k {
			return true
		}
	}
	return false
}

func isQuit(msg tea.KeyMsg) bool { return isKey(msg, "q", "ctrl+c") }

func isBack(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeyEsc || isKey(msg, "esc", "ctrl+[")
}

func isUp(msg tea.KeyMsg) bool   { return isKey(msg, "up", "k") }
func isDown(msg tea.KeyMsg) bool { return isKey(msg, "down", "j") }

func isEnter(msg tea.KeyMsg) bool { return isKey(msg, "enter") }

// isToggle is a click on the tag under the cursor.
func isToggle(msg tea.KeyMsg) bool { return isKey(msg, "enter", " ") }

func isRefresh(msg tea.KeyMsg) bool { return isKey(msg, "r", "ctrl+r") }

func isSearch(msg tea.KeyMsg) bool { return isKey(msg, "/") }
