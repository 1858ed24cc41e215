/*
Package compiler turns the indentation-structured machine notation into a
transition table.

The pipeline is a single pass per stage:

	source -> StripComments -> ExtractMacros -> Expand -> Tokenize -> Normalize -> Parse -> Builder -> Table

Three shorthand forms are accepted next to the canonical nested blocks:

	a(1) -> write 0 move r goto b!   (state a, read 1)
	b -> move r                      (state b, any symbol)
	c:
	    1 -> goto d                  (read 1 inside state c)

and all of them compile to the same records as

	a:
	    read 1:
	        write 0
	        move r
	        goto b!
*/
package compiler
