package util

import "strconv"

func StringFromNum(num int) string {
	str := strconv.Itoa(num)
	if num < 10 {
		str = "0" + str
	}

	return str
}

func ShortenAddress(address string) string {
	length := len(address)
	if length < 8 {
		return ""
	}

	return "[" + address[:4] + "..." + address[length-4:] + "]"
}
