package handler

const (
	localeZH = "zh"
	localeEN = "en"
)

type msgKey string

const (
	msgLoading          msgKey = "loading"
	msgEnterPIN         msgKey = "enter_pin"
	msgEnterEmployeeID  msgKey = "enter_employee_id"
	msgEmployeeID       msgKey = "employee_id"
	msgOrderToday       msgKey = "order_today"
	msgOrderTomorrow    msgKey = "order_tomorrow"
	msgOrderNextMonday  msgKey = "order_next_monday"
	msgVegetarian       msgKey = "vegetarian"
	msgSetAsDefault     msgKey = "set_as_default"
	msgWantOrder        msgKey = "want_order"
	msgNoOrder          msgKey = "no_order"
	msgOutOfWindow      msgKey = "out_of_window"
	msgWindowHours      msgKey = "window_hours"
	msgContactAdmin     msgKey = "contact_admin"
	msgAlreadySubmitted msgKey = "already_submitted"
	msgYourChoice       msgKey = "your_choice"
	msgOrderComplete    msgKey = "order_complete"
	msgSelectAgain      msgKey = "select_again"
	msgChangeEmployee   msgKey = "change_employee"
	msgSubmitting       msgKey = "submitting"
	msgInvalidPIN       msgKey = "invalid_pin"
	msgInvalidFormat    msgKey = "invalid_format"
	msgEmployeeNotFound msgKey = "employee_not_found"
	msgSubmitFailed     msgKey = "submit_failed"
	msgSystemError      msgKey = "system_error"
	msgReportEmpty      msgKey = "report_empty"
	msgReportCaption    msgKey = "report_caption"
	msgReportDenied     msgKey = "report_denied"
	msgBadDate          msgKey = "bad_date"
)

var messages = map[string]map[msgKey]string{
	localeZH: {
		msgLoading:          "載入中…",
		msgEnterPIN:         "請輸入密碼:",
		msgEnterEmployeeID:  "請輸入工號",
		msgEmployeeID:       "工號",
		msgOrderToday:       "今日訂餐",
		msgOrderTomorrow:    "明日訂餐",
		msgOrderNextMonday:  "下週一訂餐",
		msgVegetarian:       "素食餐點",
		msgSetAsDefault:     "將此次選擇設為預設習慣",
		msgWantOrder:        "要訂餐",
		msgNoOrder:          "不訂餐",
		msgOutOfWindow:      "非訂餐時間",
		msgWindowHours:      "當日訂餐至 09:30 截止，12:00 起開放隔日訂餐",
		msgContactAdmin:     "有問題請洽管理部",
		msgAlreadySubmitted: "已經完成訂餐",
		msgYourChoice:       "您已經選擇：",
		msgOrderComplete:    "訂餐完成！",
		msgSelectAgain:      "重新選擇",
		msgChangeEmployee:   "使用其他工號",
		msgSubmitting:       "提交中，請稍候",
		msgInvalidPIN:       "密碼錯誤",
		msgInvalidFormat:    "工號格式錯誤",
		msgEmployeeNotFound: "查無此工號",
		msgSubmitFailed:     "提交失敗，請稍後再試",
		msgSystemError:      "系統錯誤，請稍後再試",
		msgReportEmpty:      "這一天沒有訂餐紀錄",
		msgReportCaption:    "訂餐統計",
		msgReportDenied:     "請先完成裝置驗證",
		msgBadDate:          "日期格式應為 YYYY-MM-DD",
	},
	localeEN: {
		msgLoading:          "Loading…",
		msgEnterPIN:         "Enter PIN:",
		msgEnterEmployeeID:  "Enter Employee ID",
		msgEmployeeID:       "Employee ID",
		msgOrderToday:       "Today's Order",
		msgOrderTomorrow:    "Tomorrow's Order",
		msgOrderNextMonday:  "Next Monday's Order",
		msgVegetarian:       "Vegetarian Meal",
		msgSetAsDefault:     "Set as Default Choice",
		msgWantOrder:        "Order",
		msgNoOrder:          "No Order",
		msgOutOfWindow:      "Outside Order Hours",
		msgWindowHours:      "Same-day orders close at 09:30, next-day orders open at 12:00",
		msgContactAdmin:     "For assistance, please contact the management department",
		msgAlreadySubmitted: "Already Submitted",
		msgYourChoice:       "Your choice: ",
		msgOrderComplete:    "Order Complete!",
		msgSelectAgain:      "Select Again",
		msgChangeEmployee:   "Use Different ID",
		msgSubmitting:       "Submitting, please wait",
		msgInvalidPIN:       "Invalid PIN",
		msgInvalidFormat:    "Invalid employee ID format",
		msgEmployeeNotFound: "Employee not found",
		msgSubmitFailed:     "Submission failed, please try again later",
		msgSystemError:      "System error, please try again later",
		msgReportEmpty:      "No submissions for this day",
		msgReportCaption:    "Meal headcount",
		msgReportDenied:     "Verify this device first",
		msgBadDate:          "Date must be YYYY-MM-DD",
	},
}

// tr looks up a message, falling back to Chinese for unknown locales
func tr(locale string, key msgKey) string {
	if m, ok := messages[locale]; ok {
		if s, ok := m[key]; ok {
			return s
		}
	}
	return messages[localeZH][key]
}
