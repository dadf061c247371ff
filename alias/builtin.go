package alias

// builtin is the compiled-in alias list. Earlier pairs win over later
// duplicates, so "fs" maps to fuse and "st" to stock.
var builtin = [][2]string{
	// design
	{"ps", "photoshop"}, {"lr", "lightroom"}, {"pr", "premiere"}, {"ae", "after effects"}, {"ai", "illustrator"},
	{"id", "indesign"}, {"au", "audition"}, {"dw", "dreamweaver"}, {"an", "animate"}, {"pl", "prelude"},
	{"br", "bridge"}, {"ch", "character animator"}, {"me", "media encoder"}, {"ic", "incopy"}, {"fs", "fuse"},
	{"sc", "scout"}, {"st", "stock"}, {"xd", "xd"}, {"dc", "acrobat"}, {"dpp", "digital photo professional"},
	{"fcpx", "final cut pro"}, {"c4d", "cinema 4d"}, {"sketch", "sketch"}, {"figma", "figma"},
	{"photoshop", "photoshop"}, {"illustrator", "illustrator"}, {"premiere", "premiere"},
	{"aftereffects", "after effects"}, {"lightroom", "lightroom"},

	// social and office
	{"wx", "wechat"}, {"微信", "wechat"}, {"qq", "qq"}, {"dd", "dingtalk"}, {"钉钉", "dingtalk"},
	{"fs", "feishu"}, {"飞书", "feishu"}, {"lark", "feishu"}, {"word", "microsoft word"}, {"excel", "microsoft excel"},
	{"ppt", "microsoft powerpoint"}, {"wps", "wpsoffice"}, {"pdf", "acrobat"}, {"obs", "obs studio"},
	{"yx", "neteasemail"}, {"邮箱", "mail"}, {"notes", "notes"}, {"memo", "notes"}, {"wechat", "wechat"},
	{"dingtalk", "dingtalk"}, {"feishu", "feishu"},

	// video, entertainment, assistants
	{"jy", "videofusion"}, {"剪映", "videofusion"}, {"capcut", "videofusion"}, {"vf", "videofusion"},
	{"db", "doubao"}, {"豆包", "doubao"}, {"doubao", "doubao"}, {"videofusion", "videofusion"},
	{"db", "douban"}, {"dy", "douyin"}, {"bili", "bilibili"}, {"bz", "bilibili"}, {"music", "music"},
	{"网易云", "neteasemusic"}, {"spotify", "spotify"}, {"douyin", "douyin"}, {"tiktok", "douyin"},
	{"jianying", "videofusion"}, {"jianyingpro", "videofusion"},

	// productivity
	{"wp", "wpsoffice"}, {"pages", "pages"}, {"numbers", "numbers"}, {"keynote", "keynote"},

	// tools and development
	{"llq", "browser"}, {"浏览器", "browser"}, {"safari", "safari"}, {"chrome", "google chrome"},
	{"edge", "microsoft edge"}, {"fd", "finder"}, {"访达", "finder"}, {"zd", "terminal"}, {"终端", "terminal"},
	{"iterm", "iterm"}, {"code", "visual studio code"}, {"vs", "visual studio code"}, {"vscode", "visual studio code"},
	{"st", "sublime text"}, {"idea", "intellij idea"}, {"webstorm", "webstorm"}, {"py", "pycharm"},
	{"git", "github"}, {"postman", "postman"}, {"docker", "docker"},

	// system
	{"sz", "settings"}, {"设置", "settings"}, {"jh", "calculator"}, {"计算器", "calculator"},
	{"activity", "activity monitor"}, {"monitor", "activity monitor"}, {"disk", "disk utility"},
	{"keychain", "keychain access"}, {"console", "console"},
}
