package utils

import (
	"regexp"
	"strconv"
)

var firstIntRun = regexp.MustCompile(`\d+`)

// SalaryAmount 从自由文本工资里提取第一段连续数字。
// "25000-30000 сом" → 25000，区间上界和千位分隔符都会被丢掉，
// 这是沿用已有线上行为的有损策略。
func SalaryAmount(salary string) int {
	m := firstIntRun.FindString(salary)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}
