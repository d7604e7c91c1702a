package sqlinline

const QListPosts = `--sql 947265d1-805e-4a20-a95e-3665eea4acbd
select id::text, title, text, coalesce(images::text, ''), created_at
from posts
order by created_at desc;
`

const QSelectPostByID = `--sql 559e752f-0741-4cd6-80eb-b6e1f6db387f
select id::text, title, text, coalesce(images::text, ''), created_at
from posts
where id = $1::uuid
limit 1;
`

const QInsertPost = `--sql a1e1ece7-0c4c-48c0-9405-cda7072b364d
insert into posts(id, title, text, images, created_at)
values (gen_random_uuid(), $1::text, $2::text, $3::jsonb, now())
returning id::text, created_at;
`

const QUpdatePost = `--sql 84425f69-1fea-4966-9439-9891528b043e
update posts
set title = $2::text,
    text = $3::text,
    images = $4::jsonb
where id = $1::uuid;
`

const QDeletePost = `--sql 07bbc1ce-f431-4909-8e39-27907938940e
delete from posts
where id = $1::uuid;
`
