// Copyright 2024 The lawe Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package lawe

// Tables are parsed structurally:
// each level accepts only its own child tags
// and skips anything else (usually the whitespace between tags).

func (p *Parser) parseTable() *Node {
	open := p.consume(TableOpenToken, "expected '<table>'")
	table := &Node{Kind: TableKind, Attributes: open.Attributes}
	p.enter(TableCloseToken)
	for !p.isAtEnd() && !p.check(TableCloseToken) {
		switch p.peek().Kind {
		case TheadOpenToken:
			table.Children = append(table.Children, p.parseTableSection(TableHeadKind, TheadOpenToken))
		case TbodyOpenToken:
			table.Children = append(table.Children, p.parseTableSection(TableBodyKind, TbodyOpenToken))
		case TfootOpenToken:
			table.Children = append(table.Children, p.parseTableSection(TableFootKind, TfootOpenToken))
		case TROpenToken:
			table.Children = append(table.Children, p.parseTableRow())
		default:
			p.advance()
		}
	}
	p.leave()
	p.consume(TableCloseToken, "expected '</table>' to close table")
	p.skipBlankLines()
	return table
}

func (p *Parser) parseTableSection(kind NodeKind, openKind TokenKind) *Node {
	open := p.consume(openKind, "expected table section")
	section := &Node{Kind: kind, Attributes: open.Attributes}
	closeKind := openKind.CloseKind()
	p.enter(closeKind)
	for !p.isAtEnd() && !p.check(closeKind) && !p.interrupts(p.peek().Kind) {
		switch p.peek().Kind {
		case TROpenToken:
			section.Children = append(section.Children, p.parseTableRow())
		case THOpenToken:
			if kind != TableHeadKind {
				p.advance()
				continue
			}
			section.Children = append(section.Children, p.parseTableCell(TableHeaderCellKind, THOpenToken))
		default:
			p.advance()
		}
	}
	p.leave()
	p.match(closeKind)
	return section
}

func (p *Parser) parseTableRow() *Node {
	open := p.consume(TROpenToken, "expected '<tr>'")
	row := &Node{Kind: TableRowKind, Attributes: open.Attributes}
	p.enter(TRCloseToken)
	for !p.isAtEnd() && !p.check(TRCloseToken) && !p.interrupts(p.peek().Kind) {
		switch p.peek().Kind {
		case TDOpenToken:
			row.Children = append(row.Children, p.parseTableCell(TableCellKind, TDOpenToken))
		case THOpenToken:
			row.Children = append(row.Children, p.parseTableCell(TableHeaderCellKind, THOpenToken))
		default:
			p.advance()
		}
	}
	p.leave()
	p.match(TRCloseToken)
	return row
}

func (p *Parser) parseTableCell(kind NodeKind, openKind TokenKind) *Node {
	open := p.consume(openKind, "expected table cell")
	closeKind := openKind.CloseKind()
	cell := &Node{
		Kind:       kind,
		Attributes: open.Attributes,
		Children:   trimSpaceNodes(p.inlineUntil(closeKind)),
	}
	p.match(closeKind)
	return cell
}
