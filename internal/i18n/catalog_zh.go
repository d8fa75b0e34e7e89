package i18n

var chinese = Messages{
	"common.add":           "添加",
	"common.delete":        "删除",
	"common.action":        "操作",
	"common.refresh":       "刷新",
	"common.createdAt":     "创建时间",
	"common.updatedAt":     "更新时间",
	"common.confirmDelete": "确认删除？",
	"common.success":       "成功",
	"common.error":         "错误",
	"common.required":      "必填",
	"common.id":            "ID",
	"common.description":   "描述",
	"common.requestFailed": "请求失败",
	"common.empty":         "暂无数据",

	"login.title":               "邮件转发系统登录",
	"login.password":            "密码",
	"login.loginButton":         "登录",
	"login.passwordPlaceholder": "请输入密码！",
	"login.success":             "登录成功",
	"login.logout":              "已退出登录",

	"menu.domains":  "域名管理",
	"menu.accounts": "账号规则",
	"menu.logs":     "转发日志",

	"domain.addTitle":        "添加域名",
	"domain.name":            "域名",
	"domain.namePlaceholder": "example.com",
	"domain.instruction":     "说明：请为该域名添加指向本服务器的 MX 记录。",
	"domain.added":           "域名已添加",
	"domain.deleted":         "域名已删除",

	"account.addTitle":             "添加转发规则",
	"account.pattern":              "匹配模式 (正则)",
	"account.patternPlaceholder":   `^.*@example\.com$`,
	"account.patternTip":           `使用正则表达式。例如：^support@.*$ 或 ^.*@mydomain\.com$`,
	"account.forwardTo":            "转发至",
	"account.forwardToPlaceholder": "me@gmail.com",
	"account.hitCount":             "命中次数",
	"account.added":                "规则已添加",
	"account.updated":              "规则已更新",
	"account.deleted":              "规则已删除",

	"log.from":    "发件人",
	"log.to":      "收件人",
	"log.subject": "主题",
	"log.status":  "状态",
	"log.time":    "时间",
	"log.error":   "错误",
	"log.page":    "第 %d 页 / 共 %d 条",

	"console.current": "当前页面：%s",
	"console.locale":  "语言已切换为 %s",
}
