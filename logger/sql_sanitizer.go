package logger

import (
	"regexp"
)

var (
	passwordPattern = regexp.MustCompile(`(?i)(password\s*=\s*['"])([^'"]+)(['"])`)
	phonePattern    = regexp.MustCompile(`(\d{3})\d{4}(\d{4})`)
	idCardPattern   = regexp.MustCompile(`(\d{6})\d{8}(\d{4})`)
)

// sanitizeSQL 对 SQL 中的敏感信息脱敏
// 覆盖密码字段、11 位手机号、18 位身份证号
// 身份证先于手机号处理，否则 18 位数字会先被手机号规则命中
func sanitizeSQL(sql string) string {
	sql = passwordPattern.ReplaceAllString(sql, `$1***$3`)
	sql = idCardPattern.ReplaceAllString(sql, `$1********$2`)
	sql = phonePattern.ReplaceAllString(sql, `$1****$2`)
	return sql
}
