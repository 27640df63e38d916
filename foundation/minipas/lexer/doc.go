// Package lexer tokenizes minipas source text.
//
// Each line is scanned with an ordered list of rules (keyword, identifier,
// number, ":=", "=", operator, separator, ".", whitespace, any character);
// the first rule that matches at the current position wins. Keywords,
// identifiers and numbers must be whole words, where word characters are
// ASCII letters, digits and '_'. A run such as "1abc" or "x_y" therefore
// matches none of them and every character in it is reported as unknown.
package lexer
