package debug

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// 数据库表结构，重复保存时先清空旧数据。
const schema = `
CREATE TABLE IF NOT EXISTS nodes (id INTEGER PRIMARY KEY, name TEXT NOT NULL UNIQUE);
CREATE TABLE IF NOT EXISTS elements (name TEXT PRIMARY KEY);
CREATE TABLE IF NOT EXISTS links (element TEXT NOT NULL, node TEXT NOT NULL, kind TEXT NOT NULL);
CREATE TABLE IF NOT EXISTS node_values (step INTEGER NOT NULL, time TEXT, node INTEGER NOT NULL, value REAL, PRIMARY KEY (step, node));
DELETE FROM nodes;
DELETE FROM elements;
DELETE FROM links;
DELETE FROM node_values;
`

// Save 将记录写入 SQLite 数据库文件。
func (list *Record) Save(path string) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return err
	}
	defer db.Close()
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if err := list.save(tx); err != nil {
		tx.Rollback()
		return fmt.Errorf("保存记录失败: %w", err)
	}
	return tx.Commit()
}

func (list *Record) save(tx *sql.Tx) error {
	if _, err := tx.Exec(schema); err != nil {
		return err
	}
	for id, name := range list.Nodes {
		if _, err := tx.Exec(`INSERT INTO nodes (id, name) VALUES (?, ?)`, id, name); err != nil {
			return err
		}
	}
	for _, name := range list.Elements {
		if _, err := tx.Exec(`INSERT INTO elements (name) VALUES (?)`, name); err != nil {
			return err
		}
	}
	for _, link := range list.Links {
		if _, err := tx.Exec(`INSERT INTO links (element, node, kind) VALUES (?, ?, ?)`,
			link.Element, link.Node, link.Kind); err != nil {
			return err
		}
	}
	stmt, err := tx.Prepare(`INSERT INTO node_values (step, time, node, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	labels := list.labels()
	for step, values := range list.Values {
		for id, v := range values {
			if _, err := stmt.Exec(step, labels[step], id, v); err != nil {
				return err
			}
		}
	}
	return nil
}
