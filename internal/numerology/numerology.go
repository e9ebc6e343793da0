// Package numerology implements the Pythagorean calculation engine.
//
// All functions are deterministic and perform no I/O. Numbers reduce by
// repeated digit summation to a single digit 1-9, except the master numbers
// 11, 22 and 33, which are never reduced further.
package numerology

import "time"

// MasterNumbers are never reduced further.
var MasterNumbers = map[int]bool{11: true, 22: true, 33: true}

// Pythagorean letter values cycle 1-9: A=1 ... I=9, J=1, K=2 ...
var letterValues = map[rune]int{
	'A': 1, 'J': 1, 'S': 1,
	'B': 2, 'K': 2, 'T': 2,
	'C': 3, 'L': 3, 'U': 3,
	'D': 4, 'M': 4, 'V': 4,
	'E': 5, 'N': 5, 'W': 5,
	'F': 6, 'O': 6, 'X': 6,
	'G': 7, 'P': 7, 'Y': 7,
	'H': 8, 'Q': 8, 'Z': 8,
	'I': 9, 'R': 9,
}

var vowels = map[rune]bool{'A': true, 'E': true, 'I': true, 'O': true, 'U': true}

// ReduceToCore reduces n to a single digit or a master number.
func ReduceToCore(n int) int {
	for n > 9 && !MasterNumbers[n] {
		sum := 0
		for n > 0 {
			sum += n % 10
			n /= 10
		}
		n = sum
	}
	return n
}

func digitSum(n int) int {
	sum := 0
	for n > 0 {
		sum += n % 10
		n /= 10
	}
	return sum
}

// LifePath computes the Life Path number from a birth date. Month, day and
// year are reduced independently before the final reduction, so master
// numbers contributed by a component survive the sum.
func LifePath(birthDate time.Time) int {
	month := ReduceToCore(int(birthDate.Month()))
	day := ReduceToCore(birthDate.Day())
	year := ReduceToCore(digitSum(birthDate.Year()))
	return ReduceToCore(month + day + year)
}

// Expression computes the Expression (destiny) number from a full birth name.
// Non-letters are ignored and case is irrelevant; letters outside A-Z (after
// upper-casing) contribute nothing.
func Expression(fullName string) int {
	return ReduceToCore(sumLetters(fullName, false))
}

// SoulUrge computes the Soul Urge (heart's desire) number from the vowels of
// a full birth name. Only A, E, I, O, U count.
func SoulUrge(fullName string) int {
	return ReduceToCore(sumLetters(fullName, true))
}

// Birthday computes the Birthday number: the day of month reduced.
func Birthday(birthDate time.Time) int {
	return ReduceToCore(birthDate.Day())
}

// PersonalYear computes the Personal Year number for the given calendar year
// from the birth month and day.
func PersonalYear(birthDate time.Time, year int) int {
	month := ReduceToCore(int(birthDate.Month()))
	day := ReduceToCore(birthDate.Day())
	reducedYear := ReduceToCore(digitSum(year))
	return ReduceToCore(month + day + reducedYear)
}

func sumLetters(name string, vowelsOnly bool) int {
	total := 0
	for _, r := range name {
		if r >= 'a' && r <= 'z' {
			r -= 'a' - 'A'
		}
		if r < 'A' || r > 'Z' {
			continue
		}
		if vowelsOnly && !vowels[r] {
			continue
		}
		total += letterValues[r]
	}
	return total
}
