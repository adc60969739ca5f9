// Package decorate maps the output of a string tokenizer back onto a
// document tree.
//
// Flatten joins the text nodes of a subtree into one string, Map walks a
// token stream over that string and yields annotation ranges addressed by
// text node key and rune offset, and Decorator ties both to a grammar
// registry. Nothing here modifies the document.
package decorate
